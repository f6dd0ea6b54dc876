// Package parserstate implements spec.md §3's ParserState: the
// stack-like contextual flags threaded through one parse — the current
// event, the set of restricted-syntax class tags in force, the
// statement chain currently being built, and the expression-placeholder
// recursion depth guard.
//
// Grounded on runtime/validation/recursion.go's visiting-set push/pop
// discipline (enter, recurse, backtrack by removing on the way out) —
// adapted from cycle detection over named command references to a
// depth-limited recursion guard over nested expression placeholders;
// this domain has no command-name graph to detect cycles in, so only
// the enter/leave shape survives, not the cycle-path bookkeeping.
package parserstate

import (
	"fmt"

	"github.com/chaossafti/skript/syntax"
)

// DefaultMaxPlaceholderDepth bounds ExpressionPlaceholder recursion (an
// expression matching inside an expression matching inside...) so a
// pathological or adversarial pattern set can't blow the Go call stack.
const DefaultMaxPlaceholderDepth = 64

// State is the mutable, per-parse-call context pushed and popped across
// section recursion (spec.md §3, §4.6).
type State struct {
	CurrentEvent *syntax.Info

	restricted map[string]int // class tag -> active nesting count
	chain      []interface{}  // stack of "statement chain currently being built"

	placeholderDepth int
	maxPlaceholder   int
}

// New creates a ParserState for a fresh top-level parse, with no
// restricted syntaxes and no current event.
func New() *State {
	return &State{restricted: make(map[string]int), maxPlaceholder: DefaultMaxPlaceholderDepth}
}

// ForTrigger creates the ParserState an UnloadedTrigger is finalized
// with: only current_event is set here; the caller (parse.ParseTrigger)
// adds the event's handled contexts as restrictions.
func ForTrigger(event *syntax.Info) *State {
	s := New()
	s.CurrentEvent = event
	return s
}

// Restrict forbids classTag for the remainder of the returned scope;
// calling the returned func lifts the restriction again. Nested
// restrictions on the same tag are reference-counted so an inner scope
// never accidentally un-forbids an outer one's tag early.
func (s *State) Restrict(classTags ...string) (release func()) {
	for _, tag := range classTags {
		s.restricted[tag]++
	}
	return func() {
		for _, tag := range classTags {
			s.restricted[tag]--
			if s.restricted[tag] <= 0 {
				delete(s.restricted, tag)
			}
		}
	}
}

// IsRestricted reports whether classTag is currently forbidden
// (spec.md §4.4 step 5e's "parser state forbids this element's class").
func (s *State) IsRestricted(classTag string) bool {
	return s.restricted[classTag] > 0
}

// PushChain marks the start of a new statement chain being built (e.g.
// entering a section's body); PopChain must be called exactly once for
// every PushChain, in LIFO order.
func (s *State) PushChain(head interface{}) {
	s.chain = append(s.chain, head)
}

// PopChain removes the innermost chain frame.
func (s *State) PopChain() {
	if len(s.chain) == 0 {
		return
	}
	s.chain = s.chain[:len(s.chain)-1]
}

// CurrentChain returns the innermost chain frame, or nil if none is open.
func (s *State) CurrentChain() interface{} {
	if len(s.chain) == 0 {
		return nil
	}
	return s.chain[len(s.chain)-1]
}

// EnterPlaceholder guards one level of ExpressionPlaceholder recursion.
// It returns an error once DefaultMaxPlaceholderDepth is exceeded, and
// otherwise a leave func the caller must invoke on every exit path
// (success or failure) to keep the depth counter balanced.
func (s *State) EnterPlaceholder() (leave func(), err error) {
	if s.placeholderDepth >= s.maxPlaceholder {
		return func() {}, fmt.Errorf("parserstate: expression placeholder recursion exceeded depth %d", s.maxPlaceholder)
	}
	s.placeholderDepth++
	return func() { s.placeholderDepth-- }, nil
}
