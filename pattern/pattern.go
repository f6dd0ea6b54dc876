// Package pattern implements the regular-expression-like pattern
// language from spec.md §4.2 and §6: literal text, optional groups,
// choice groups with marks, embedded regexes, and typed-expression
// placeholders.
//
// The matcher needs to recursively invoke the expression dispatcher to
// resolve an ExpressionPlaceholder, but the dispatcher (package parse)
// needs to compile and match patterns — a genuine two-way dependency.
// It's broken the conventional Go way: pattern declares the narrow
// Resolver interface it needs, and parse satisfies it without pattern
// ever importing parse.
package pattern

import "github.com/chaossafti/skript/types"

// Element is one node of a compiled pattern: spec.md §3's pattern
// element sum type (Text, Optional, Choice, Regex,
// ExpressionPlaceholder), modeled as an interface rather than a closed
// sum type so each variant's match logic lives with its own data.
type Element interface {
	// match attempts this element at position `at` in s. On success it
	// returns the new cursor position; on failure it returns (at, false)
	// and must not have recorded anything in ctx.
	match(ctx *Context, s string, at int) (int, bool)
}

// Pattern is a compiled sequence of Elements: the top-level structure
// produced by Compile and consumed by Match.
type Pattern struct {
	Source   string
	Elements []Element
}

// Resolver lets an ExpressionPlaceholder recursively invoke the
// expression dispatcher (package parse) without pattern importing it.
// State is opaque to this package (the parse package passes a
// *parse.ResolveState) and
// passed straight through to the resolver.
type Resolver interface {
	// ParseExpression parses text in full as an expression of pt's
	// type. The caller (ExpressionPlaceholder.match) is responsible for
	// trying progressively longer candidate substrings of the
	// remainder per spec.md §4.2 — this method itself either consumes
	// the whole of text or fails outright. The expression value itself
	// is opaque to package pattern.
	ParseExpression(text string, pt types.PatternType, state interface{}) (expr interface{}, ok bool)
}

// Context accumulates the state of one top-down match attempt: captured
// expressions in match order, the choice index taken by each Choice
// element, and whether each Optional element matched (spec.md §3's
// "Match context").
type Context struct {
	Resolver Resolver
	State    interface{}

	Captures []interface{} // expressions captured by ExpressionPlaceholders, in order
	Choices  []int         // pattern-index chosen by each Choice, in order
	Optional []bool        // whether each Optional matched, in order
}

// NewContext creates a match context for a single match attempt.
func NewContext(resolver Resolver, state interface{}) *Context {
	return &Context{Resolver: resolver, State: state}
}

// Match runs p against s starting at byte offset `at`, returning the end
// offset on success. A fresh Context must be used per attempt — Match
// does not reset ctx.
func Match(p *Pattern, ctx *Context, s string, at int) (int, bool) {
	return matchSequence(ctx, p.Elements, s, at)
}

func matchSequence(ctx *Context, elems []Element, s string, at int) (int, bool) {
	pos := at
	for _, e := range elems {
		next, ok := e.match(ctx, s, pos)
		if !ok {
			return at, false
		}
		pos = next
	}
	return pos, true
}
