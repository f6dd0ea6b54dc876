package parse

import (
	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/parserstate"
	"github.com/chaossafti/skript/pattern"
	"github.com/chaossafti/skript/types"
)

// parseList implements spec.md §4.5: split text on top-level and/or/nor
// separators, parse each component against expected's item type, and
// build a LiteralList when every component parsed as a literal of a
// common type, or an ExpressionList otherwise. A zero-length component
// between separators (e.g. "a, , b") fails the whole parse.
func (p *Parser) parseList(text string, expected types.PatternType, ps *parserstate.State, log diag.Sink, line int) (Expression, bool) {
	items, isOr := pattern.SplitList(text)
	if len(items) < 2 {
		return nil, false
	}

	single := types.PatternType{Type: expected.Type, Single: true}

	parsed := make([]Expression, 0, len(items))
	for _, item := range items {
		trimmed := trimSpace(item)
		if trimmed == "" {
			return nil, false
		}
		expr, ok := p.parseExpression(trimmed, single, ps, log, line)
		if !ok {
			return nil, false
		}
		parsed = append(parsed, expr)
	}

	allLiteral := true
	values := make([]interface{}, 0, len(parsed))
	var itemType *types.Type
	for _, expr := range parsed {
		value, t, ok := asLiteralValue(expr)
		if !ok {
			allLiteral = false
			break
		}
		if itemType == nil {
			itemType = t
		} else if itemType != t {
			allLiteral = false
			break
		}
		values = append(values, value)
	}

	if allLiteral {
		return &LiteralList{Values: values, Item: itemType, AndList: !isOr, types: p.Types}, true
	}

	var commonType *types.Type
	if expected.Type != nil {
		commonType = expected.Type
	} else if len(parsed) > 0 {
		commonType = parsed[0].ReturnType()
	}
	return &ExpressionList{Items: parsed, AndList: !isOr, commonType: commonType}, true
}

// asLiteralValue extracts a plain literal value and its type from expr
// when it's a SimpleLiteral, or from a VariableString with no embedded
// interpolation (a plain quoted string is a text literal too, per
// spec.md §4.5).
func asLiteralValue(expr Expression) (interface{}, *types.Type, bool) {
	switch v := expr.(type) {
	case *SimpleLiteral:
		return v.Value, v.Type, true
	case *VariableString:
		for _, part := range v.Parts {
			if _, ok := part.(string); !ok {
				return nil, nil, false
			}
		}
		return v.render(nil, false), v.text, true
	default:
		return nil, nil, false
	}
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
