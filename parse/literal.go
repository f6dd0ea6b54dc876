package parse

import (
	"strings"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/parserstate"
	"github.com/chaossafti/skript/types"
)

// parseLiteral implements spec.md §4.4 step 2: quoted strings (with
// percent-delimited interpolation) are recognized first, then every
// registered Type's literal parser is tried in turn.
func (p *Parser) parseLiteral(text string, expected types.PatternType, ps *parserstate.State, log diag.Sink, line int) (Expression, bool) {
	if quoted, ok := unwrapQuotes(text); ok {
		vs, ok := p.parseVariableString(quoted, ps, log, line)
		if !ok {
			return nil, false
		}
		return p.coerce(vs, expected, log, line)
	}

	for _, t := range p.Types.All() {
		if t.Parse == nil {
			continue
		}
		if expected.Type != nil && !p.assignable(t.Class, expected.Type.Class) {
			continue
		}
		value, ok := t.Parse(text)
		if !ok {
			continue
		}
		lit := newSimpleLiteral(value, t, p.Types)
		return p.coerce(lit, expected, log, line)
	}
	return nil, false
}

// unwrapQuotes reports whether text is a double-quoted string spanning
// its entire length (escaped inner quotes, written \", don't close it
// early), returning the unescaped-quote content without its delimiters.
func unwrapQuotes(text string) (string, bool) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	inner := text[1 : len(text)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '"' && (i == 0 || inner[i-1] != '\\') {
			return "", false
		}
	}
	return inner, true
}

// parseVariableString splits content into alternating literal-text and
// %expression% parts (spec.md §4.4's string interpolation), recursively
// invoking the dispatcher on each embedded expression with no type
// restriction (any type's rendering is acceptable in interpolated text).
func (p *Parser) parseVariableString(content string, ps *parserstate.State, log diag.Sink, line int) (*VariableString, bool) {
	var parts []interface{}
	var plain strings.Builder

	i := 0
	for i < len(content) {
		if content[i] == '\\' && i+1 < len(content) && content[i+1] == '"' {
			plain.WriteByte('"')
			i += 2
			continue
		}
		if content[i] == '%' {
			end := strings.IndexByte(content[i+1:], '%')
			if end < 0 {
				plain.WriteByte('%')
				i++
				continue
			}
			inner := content[i+1 : i+1+end]
			if plain.Len() > 0 {
				parts = append(parts, plain.String())
				plain.Reset()
			}
			expr, ok := p.parseExpression(inner, types.PatternType{Single: true}, ps, log, line)
			if !ok {
				return nil, false
			}
			parts = append(parts, expr)
			i += 1 + end + 1
			continue
		}
		plain.WriteByte(content[i])
		i++
	}
	if plain.Len() > 0 {
		parts = append(parts, plain.String())
	}

	textType, _ := p.Types.Type("text")
	return &VariableString{Parts: parts, types: p.Types, text: textType}, true
}
