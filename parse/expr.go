// Package parse implements the expression/effect/section/trigger
// dispatcher from spec.md §4.4-§4.7: the syntax parser that walks a
// kind's recency-then-remainder candidates, matches patterns, and
// instantiates + initializes the winning syntax element.
//
// Grounded on runtime/parser/parser.go's overall dispatch skeleton
// (try-candidates-in-order, semantic-reject-and-continue, final
// NO_MATCH) and its ParseError/ErrorType taxonomy in errors.go.
package parse

import (
	"fmt"
	"strings"

	"github.com/chaossafti/skript/pattern"
	"github.com/chaossafti/skript/syntax"
	"github.com/chaossafti/skript/types"
)

// Expression is spec.md §3's Expression<T> capability set, aliased
// directly to syntax.ExpressionInstance so every built-in literal/list/
// variable variant and every registered user expression share one
// vocabulary: a parse-package ExpressionList can hold either kind
// interchangeably.
type Expression = syntax.ExpressionInstance

// SimpleLiteral wraps a value parsed directly by a Type's literal
// parser (spec.md §4.4 step 2).
type SimpleLiteral struct {
	Value interface{}
	Type  *types.Type
	types  *types.Registry
}

func (l *SimpleLiteral) Init([]interface{}, int, *pattern.Context) bool { return true }

// newSimpleLiteral builds a SimpleLiteral bound to reg for later
// conversion; literal.go and ConvertTo use it.
func newSimpleLiteral(value interface{}, t *types.Type, reg *types.Registry) *SimpleLiteral {
	return &SimpleLiteral{Value: value, Type: t, types: reg}
}

func (l *SimpleLiteral) GetValues(ctx interface{}) []interface{} { return []interface{}{l.Value} }
func (l *SimpleLiteral) IsSingle() bool                          { return true }
func (l *SimpleLiteral) ReturnType() *types.Type                 { return l.Type }

func (l *SimpleLiteral) ConvertTo(target *types.Type) (Expression, bool) {
	if l.Type == target {
		return l, true
	}
	if l.types == nil {
		return nil, false
	}
	converted, ok := l.types.Convert(l.Value, l.Type.Class, target.Class)
	if !ok {
		return nil, false
	}
	return newSimpleLiteral(converted, target, l.types), true
}

func (l *SimpleLiteral) ToString(ctx interface{}, debug bool) string {
	if l.Type != nil && l.Type.String != nil {
		return l.Type.String(l.Value, debug)
	}
	return fmt.Sprintf("%v", l.Value)
}

// LiteralList is spec.md §4.5's and/or-flagged list of literal values
// sharing a common item type.
type LiteralList struct {
	Values  []interface{}
	Item    *types.Type
	AndList bool
	types   *types.Registry
}

func (l *LiteralList) Init([]interface{}, int, *pattern.Context) bool { return true }
func (l *LiteralList) GetValues(ctx interface{}) []interface{}                     { return l.Values }
func (l *LiteralList) IsSingle() bool                                              { return false }
func (l *LiteralList) ReturnType() *types.Type                                     { return l.Item }

func (l *LiteralList) ConvertTo(target *types.Type) (Expression, bool) {
	if l.Item == target {
		return l, true
	}
	if l.types == nil {
		return nil, false
	}
	converted := make([]interface{}, len(l.Values))
	for i, v := range l.Values {
		cv, ok := l.types.Convert(v, l.Item.Class, target.Class)
		if !ok {
			return nil, false
		}
		converted[i] = cv
	}
	return &LiteralList{Values: converted, Item: target, AndList: l.AndList, types: l.types}, true
}

func (l *LiteralList) ToString(ctx interface{}, debug bool) string {
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		if l.Item != nil && l.Item.String != nil {
			parts[i] = l.Item.String(v, debug)
		} else {
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	sep := " and "
	if !l.AndList {
		sep = " or "
	}
	return strings.Join(parts, sep)
}

// ExpressionList is spec.md §4.5's and/or-flagged list whose elements
// are arbitrary sub-expressions rather than bare literal values.
type ExpressionList struct {
	Items      []Expression
	AndList    bool
	commonType *types.Type
}

func (l *ExpressionList) Init([]interface{}, int, *pattern.Context) bool { return true }

func (l *ExpressionList) GetValues(ctx interface{}) []interface{} {
	var out []interface{}
	for _, item := range l.Items {
		out = append(out, item.GetValues(ctx)...)
	}
	return out
}

func (l *ExpressionList) IsSingle() bool          { return false }
func (l *ExpressionList) ReturnType() *types.Type { return l.commonType }

func (l *ExpressionList) ConvertTo(target *types.Type) (Expression, bool) {
	converted := make([]Expression, len(l.Items))
	for i, item := range l.Items {
		c, ok := item.ConvertTo(target)
		if !ok {
			return nil, false
		}
		converted[i] = c
	}
	return &ExpressionList{Items: converted, AndList: l.AndList, commonType: target}, true
}

func (l *ExpressionList) ToString(ctx interface{}, debug bool) string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.ToString(ctx, debug)
	}
	sep := " and "
	if !l.AndList {
		sep = " or "
	}
	return strings.Join(parts, sep)
}

// Variable is spec.md §3's named runtime slot, `{name}` or
// `{name::%index%}`. Its value is only available at runtime, which is
// out of this engine's scope (spec.md §1) — GetValues returns nil
// unless the unexported resolve func is set, and nothing in this
// repository sets it.
type Variable struct {
	Name    string
	Index   Expression // nil when not an indexed reference
	Plural  bool
	Declared *types.Type // nil when the variable's type isn't statically known

	resolve func(name string, index Expression, ctx interface{}) []interface{}
}

func (v *Variable) Init([]interface{}, int, *pattern.Context) bool { return true }

func (v *Variable) GetValues(ctx interface{}) []interface{} {
	if v.resolve == nil {
		return nil
	}
	return v.resolve(v.Name, v.Index, ctx)
}

func (v *Variable) IsSingle() bool          { return !v.Plural }
func (v *Variable) ReturnType() *types.Type { return v.Declared }

func (v *Variable) ConvertTo(target *types.Type) (Expression, bool) {
	if v.Declared == nil || v.Declared == target {
		clone := *v
		clone.Declared = target
		return &clone, true
	}
	return nil, false
}

func (v *Variable) ToString(ctx interface{}, debug bool) string {
	if v.Index != nil {
		return fmt.Sprintf("{%s::%s}", v.Name, v.Index.ToString(ctx, debug))
	}
	return fmt.Sprintf("{%s}", v.Name)
}

// VariableString is spec.md §4.4's string literal with percent-delimited
// interpolation: alternating literal text parts and embedded
// expressions, e.g. "hello %{player}%".
type VariableString struct {
	Parts []interface{} // string or Expression, in order
	types *types.Registry
	text  *types.Type
}

func (s *VariableString) Init([]interface{}, int, *pattern.Context) bool { return true }
func (s *VariableString) IsSingle() bool                                              { return true }
func (s *VariableString) ReturnType() *types.Type                                      { return s.text }

func (s *VariableString) GetValues(ctx interface{}) []interface{} {
	return []interface{}{s.render(ctx, false)}
}

func (s *VariableString) render(ctx interface{}, debug bool) string {
	var b strings.Builder
	for _, part := range s.Parts {
		switch p := part.(type) {
		case string:
			b.WriteString(p)
		case Expression:
			b.WriteString(p.ToString(ctx, debug))
		}
	}
	return b.String()
}

func (s *VariableString) ConvertTo(target *types.Type) (Expression, bool) {
	if s.text == target {
		return s, true
	}
	return nil, false
}

func (s *VariableString) ToString(ctx interface{}, debug bool) string { return s.render(ctx, debug) }
