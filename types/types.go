// Package types implements the Type<T> model and converter graph from
// spec.md §3 and §4.4: named, registered value types with an optional
// literal parser, a to-string renderer, and an opaque arithmetic table
// slot (arithmetic tables themselves are a concrete-syntax-element
// concern, out of scope for this engine — spec.md §1).
package types

// LiteralParser parses a literal token into a value of this type, or
// reports that text isn't a literal of this type.
type LiteralParser func(text string) (value interface{}, ok bool)

// ToStringer renders a runtime value back to source-like text; debug
// renderings are allowed to be more verbose (e.g. include the type name).
type ToStringer func(value interface{}, debug bool) string

// Type is a registered value type: a name used in pattern placeholders
// (%number%), a plural form, and optional literal-parsing/rendering/
// arithmetic hooks (spec.md §3's Type<T>).
type Type struct {
	// Class is this type's unique identity, e.g. "number". Distinct
	// from Name only in principle — this engine has no separate
	// display-name vs. identity distinction, so the two coincide.
	Class string

	// Name is the singular pattern-placeholder spelling, e.g. "number".
	Name string

	// Plural is the plural pattern-placeholder spelling, e.g. "numbers".
	Plural string

	// Parse is nil for types with no literal syntax (e.g. a type only
	// ever produced by expressions, never typed directly as a literal).
	Parse LiteralParser

	// String renders a value of this type; nil falls back to fmt's
	// default formatting.
	String ToStringer

	// Arithmetic is an opaque, collaborator-supplied arithmetic table
	// (addition/subtraction/etc. for this type). This engine never
	// inspects it — concrete arithmetic is outside its scope — it only
	// carries the field so a registered Type round-trips it.
	Arithmetic interface{}
}

// Matches reports whether name (as written in source, case-insensitive)
// names this type singularly or plurally.
func (t *Type) Matches(name string) (plural bool, ok bool) {
	if equalFold(name, t.Name) {
		return false, true
	}
	if t.Plural != "" && equalFold(name, t.Plural) {
		return true, true
	}
	return false, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// PatternType pairs a Type with the singular/plural flag a placeholder
// expects (spec.md §3's PatternType<T>).
type PatternType struct {
	Type   *Type
	Single bool

	// LiteralOnly marks a %-type% placeholder (spec.md §4.2): only a
	// literal of this type is accepted, never a variable reference or a
	// registered expression.
	LiteralOnly bool
}
