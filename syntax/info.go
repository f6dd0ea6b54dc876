// Package syntax implements the process-wide syntax registry and
// recency-ordered dispatcher from spec.md §4.3: a catalog of registered
// expression/effect/section/event/comparator patterns, indexed by kind
// and sorted by registration priority, plus the per-kind LRU that
// accelerates repeat matches.
//
// Concrete syntax elements (what `set` or `add` actually do) are external
// collaborators per spec.md §1's explicit non-goal; this package only
// stores their registrations and implements the capability-bag interfaces
// (spec.md §9) a registerer's factory must produce.
package syntax

import (
	"github.com/chaossafti/skript/pattern"
	"github.com/chaossafti/skript/types"
)

// Instance is the minimum capability every syntax element supports: being
// bound to a successful pattern match (spec.md §3's Statement/Expression
// `init`).
type Instance interface {
	// Init binds a freshly-instantiated element to one successful match.
	// captures are the ExpressionPlaceholder captures in match order;
	// patternIndex is which of Info.Patterns matched (the Choice-mark
	// equivalent at the info level); parseResult carries whatever
	// pattern.Context the matcher accumulated (Choices/Optional flags).
	// False means this info doesn't accept the binding after all — the
	// dispatcher tries the element's next pattern.
	Init(captures []interface{}, patternIndex int, parseResult *pattern.Context) bool
}

// ExpressionInstance is the capability set of a value-producing syntax
// element (spec.md §3's Expression<T>).
type ExpressionInstance interface {
	Instance
	GetValues(ctx interface{}) []interface{}
	IsSingle() bool
	ReturnType() *types.Type
	ConvertTo(target *types.Type) (ExpressionInstance, bool)
	ToString(ctx interface{}, debug bool) string
}

// ConditionalInstance marks an ExpressionInstance as usable as a boolean
// condition — the capability marker spec.md §4.4 calls `Conditional`.
type ConditionalInstance interface {
	ExpressionInstance
	IsConditional() bool
}

// StatementInstance is a node in the statement chain (spec.md §3): it can
// be linked to a successor and walked.
type StatementInstance interface {
	Instance
	SetNext(next StatementInstance)
	Next() StatementInstance
}

// SectionInstance additionally recurses into a nested block body
// (spec.md §4.6's `load_section`). body, state, and log are opaque here
// (elements.Element, parserstate.State, diag.Sink respectively) to avoid
// this package importing parse/parserstate/elements.
type SectionInstance interface {
	StatementInstance
	LoadSection(body interface{}, state interface{}, log interface{}) error
}

// EventInstance binds a trigger's event line and registers the resulting
// Trigger with the external event bus (spec.md §6's EventBus contract).
type EventInstance interface {
	Instance
	Register(trigger interface{}, eventBus EventBus)
}

// EventBus is the external collaborator contract from spec.md §6.
type EventBus interface {
	Register(trigger interface{})
	Call(eventClassOrName string, context interface{})
}

// Factory builds a fresh, uninitialized instance for one match attempt
// (spec.md §9: "store an explicit factory alongside each SyntaxInfo,
// make the factory a required field, eliminating runtime reflection").
type Factory func() Instance

// Info is spec.md §3's SyntaxInfo<C>: a registered syntax element's
// identity, dispatch patterns, and construction recipe.
type Info struct {
	Registerer string // who registered this (an addon/module name), for diagnostics
	ClassTag   string // unique identity, e.g. "effect_set"
	Priority   int    // registry dispatch order; see Registry.Register
	Patterns   []*pattern.Pattern
	Factory    Factory
	DataBag    interface{} // opaque registerer-supplied metadata
	Schema     string      // optional JSON Schema validating DataBag at registration

	// Expression-only fields (spec.md §3's ExpressionInfo).
	ReturnType *types.Type
	Single     bool

	// Event-only fields (spec.md §3's EventInfo).
	HandledContexts []string
	LoadingPriority int
}
