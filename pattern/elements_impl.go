package pattern

import (
	"regexp"
	"strings"

	"github.com/chaossafti/skript/types"
)

// snapshot/restore let a backtracking element (Optional, Choice) discard
// whatever a failed sub-attempt recorded into ctx before trying the next
// alternative, so ctx only ever reflects the one attempt that ultimately
// succeeded.
type snap struct{ captures, choices, optional int }

func takeSnapshot(ctx *Context) snap {
	return snap{len(ctx.Captures), len(ctx.Choices), len(ctx.Optional)}
}

func restoreSnapshot(ctx *Context, s snap) {
	ctx.Captures = ctx.Captures[:s.captures]
	ctx.Choices = ctx.Choices[:s.choices]
	ctx.Optional = ctx.Optional[:s.optional]
}

// Text matches its literal content case-insensitively. Leading/trailing
// whitespace in the pattern source is greedy at match time: a single
// space in the pattern matches any positive run of whitespace in the
// input (spec.md §4.2).
type Text struct {
	core                       string
	leadingSpace, trailingSpace bool
}

// NewText builds a Text element from its raw pattern spelling, splitting
// off any leading/trailing whitespace run into the greedy-match flags.
func NewText(raw string) *Text {
	leading := len(raw) > 0 && isPatternSpace(raw[0])
	trailing := len(raw) > 0 && isPatternSpace(raw[len(raw)-1])
	return &Text{core: strings.TrimSpace(raw), leadingSpace: leading, trailingSpace: trailing}
}

func isPatternSpace(b byte) bool { return b == ' ' || b == '\t' }

func skipSpaceRun(s string, pos int) int {
	for pos < len(s) && isPatternSpace(s[pos]) {
		pos++
	}
	return pos
}

func (t *Text) match(ctx *Context, s string, at int) (int, bool) {
	pos := at

	if t.core == "" {
		if !t.leadingSpace && !t.trailingSpace {
			return pos, true
		}
		next := skipSpaceRun(s, pos)
		if next == pos {
			return at, false
		}
		return next, true
	}

	if t.leadingSpace {
		next := skipSpaceRun(s, pos)
		if next == pos {
			return at, false
		}
		pos = next
	}

	if len(s)-pos < len(t.core) || !strings.EqualFold(s[pos:pos+len(t.core)], t.core) {
		return at, false
	}
	pos += len(t.core)

	if t.trailingSpace {
		next := skipSpaceRun(s, pos)
		if next == pos {
			return at, false
		}
		pos = next
	}

	return pos, true
}

// Optional tries its inner sequence; on failure it leaves the input
// untouched and records absence rather than failing the whole pattern.
type Optional struct {
	Inner []Element
}

func (o *Optional) match(ctx *Context, s string, at int) (int, bool) {
	sn := takeSnapshot(ctx)
	next, ok := matchSequence(ctx, o.Inner, s, at)
	if !ok {
		restoreSnapshot(ctx, sn)
		ctx.Optional = append(ctx.Optional, false)
		return at, true
	}
	ctx.Optional = append(ctx.Optional, true)
	return next, true
}

// Choice tries each alternative in order, recording the mark of whichever
// one matched first (spec.md §6's "1¦add|2¦remove" syntax).
type Choice struct {
	Alternatives [][]Element
	Marks        []int
}

func (c *Choice) match(ctx *Context, s string, at int) (int, bool) {
	for i, alt := range c.Alternatives {
		sn := takeSnapshot(ctx)
		next, ok := matchSequence(ctx, alt, s, at)
		if ok {
			ctx.Choices = append(ctx.Choices, c.Marks[i])
			return next, true
		}
		restoreSnapshot(ctx, sn)
	}
	return at, false
}

// Regex matches an embedded, anchored regular expression. spec.md leaves
// the pattern-language's regex delimiter unspecified; Compile uses
// <...> (see compile.go) — a deliberate convention, documented in
// DESIGN.md, since nothing in spec.md pins one down.
type Regex struct {
	re *regexp.Regexp
}

func newRegexElement(source string) (*Regex, error) {
	re, err := regexp.Compile(`\A(?:` + source + `)`)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

func (r *Regex) match(ctx *Context, s string, at int) (int, bool) {
	loc := r.re.FindStringIndex(s[at:])
	if loc == nil {
		return at, false
	}
	return at + loc[1], true
}

// ExpressionPlaceholder matches a typed sub-expression (%type%, %*type%,
// %-type%, %~type%) by recursively invoking ctx.Resolver over
// progressively longer candidate prefixes of the remainder, stopping at
// the first one that parses in full (spec.md §4.2).
type ExpressionPlaceholder struct {
	PT types.PatternType
}

func (p *ExpressionPlaceholder) match(ctx *Context, s string, at int) (int, bool) {
	if ctx.Resolver == nil {
		return at, false
	}
	remainder := s[at:]
	for _, length := range placeholderBoundaries(remainder) {
		candidate := remainder[:length]
		if candidate == "" {
			continue
		}
		expr, ok := ctx.Resolver.ParseExpression(candidate, p.PT, ctx.State)
		if ok {
			ctx.Captures = append(ctx.Captures, expr)
			// Whitespace after the sub-expression is left for the next
			// element (e.g. a Text with leading whitespace) to consume.
			return at + len(strings.TrimRight(candidate, " \t")), true
		}
	}
	return at, false
}
