package parse

import (
	"strings"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/parserstate"
	"github.com/chaossafti/skript/pattern"
	"github.com/chaossafti/skript/syntax"
	"github.com/chaossafti/skript/types"
)

// Parser is spec.md §4's top-level dispatcher: it owns the syntax
// registry, the type registry, and the variable collaborator, and walks
// spec.md §4.4's algorithm to turn source text into a syntax instance.
type Parser struct {
	Syntax    *syntax.Registry
	Types     *types.Registry
	Variables VariableResolver
}

// NewParser wires a dispatcher from its three collaborators. Variables
// may be nil, in which case `{name}` text never parses as a Variable.
func NewParser(syn *syntax.Registry, typeReg *types.Registry, vars VariableResolver) *Parser {
	return &Parser{Syntax: syn, Types: typeReg, Variables: vars}
}

// ParseExpression implements spec.md §4.4. It also satisfies
// pattern.Resolver, letting an ExpressionPlaceholder recurse back into
// this same dispatcher: state must be a *ResolveState (constructed via
// NewResolveState) bundling the ParserState and the diagnostic sink that
// a plain (state, log) pair would otherwise carry as two arguments.
func (p *Parser) ParseExpression(text string, pt types.PatternType, state interface{}) (interface{}, bool) {
	rs, ok := state.(*ResolveState)
	if !ok {
		return nil, false
	}
	expr, ok := p.parseExpression(text, pt, rs.PS, rs.Log, 0)
	if !ok {
		return nil, false
	}
	return expr, true
}

func (p *Parser) parseExpression(raw string, expected types.PatternType, ps *parserstate.State, log diag.Sink, line int) (Expression, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}

	// Step 1: strip one layer of balanced, whole-spanning parentheses.
	if unwrapped, ok := stripOuterParens(text); ok {
		return p.parseExpression(unwrapped, expected, ps, log, line)
	}

	// Step 2: literal parse (includes the quoted-string/VariableString
	// special case).
	if expr, ok := p.parseLiteral(text, expected, ps, log, line); ok {
		return expr, true
	}

	// Step 3: variable parse. A %-type% placeholder (LiteralOnly) accepts
	// only a literal of the expected type, never a variable reference.
	if p.Variables != nil && !expected.LiteralOnly {
		class := ""
		if expected.Type != nil {
			class = expected.Type.Class
		}
		if v, ok := p.Variables.ParseVariable(text, class, ps, log); ok {
			return p.coerce(v, expected, log, line)
		}
	}

	// Step 4: list-literal parse, only when the placeholder expects a
	// plural (spec.md §4.5). A LiteralOnly placeholder only accepts the
	// all-literal LiteralList outcome, never a mixed ExpressionList.
	if !expected.Single {
		if expr, ok := p.parseList(text, expected, ps, log, line); ok {
			if _, isExprList := expr.(*ExpressionList); !isExprList || !expected.LiteralOnly {
				return expr, true
			}
		}
	}

	// Step 5: recency-then-remainder walk of registered expressions. A
	// %-type% placeholder never reaches the registry at all.
	if expected.LiteralOnly {
		diag.NoMatchf(log, line, text)
		return nil, false
	}
	for _, info := range p.Syntax.Candidates(syntax.KindExpression) {
		if expected.Type != nil && info.ReturnType != nil && !p.assignable(info.ReturnType.Class, expected.Type.Class) {
			continue
		}
		for patIdx, pat := range info.Patterns {
			// Every candidate attempt is diagnosed into its own speculative
			// scope: a failed attempt's semantic/restricted noise never
			// reaches the surfaced log (spec.md §7), only the eventual
			// winner's (or, on total failure, the final NoMatchf below).
			attempt := log.Recurse("matching " + info.ClassTag)
			// The depth guard spans the match, which is where placeholders
			// recurse back into parseExpression.
			leave, err := ps.EnterPlaceholder()
			if err != nil {
				diag.Malformedf(attempt, line, "%s", err.Error())
				leave()
				attempt.Discard()
				continue
			}
			ctx := pattern.NewContext(p, NewResolveState(ps, attempt))
			end, ok := pattern.Match(pat, ctx, text, 0)
			leave()
			if !ok || end != len(text) {
				attempt.Discard()
				continue
			}

			instance, err := p.Syntax.Instantiate(syntax.KindExpression, info)
			if err != nil {
				diag.Exceptionf(attempt, line, "%s", err.Error())
				attempt.Discard()
				continue
			}
			if !instance.Init(ctx.Captures, patIdx, ctx) {
				attempt.Discard()
				continue
			}
			expr, ok := instance.(Expression)
			if !ok {
				attempt.Discard()
				continue
			}

			if expected.Single && !expr.IsSingle() {
				diag.Semanticf(attempt, line, "%q produces %s, expected %s", text, plurality(expr.IsSingle()), plurality(expected.Single))
				attempt.Discard()
				continue
			}
			if info.ClassTag != "" && ps.IsRestricted(info.ClassTag) {
				diag.Restrictedf(attempt, line, "%q is not allowed in this context", text)
				attempt.Discard()
				continue
			}

			result, ok := p.coerce(expr, expected, attempt, line)
			if !ok {
				attempt.Discard()
				continue
			}
			p.Syntax.Acknowledge(syntax.KindExpression, info)
			attempt.Commit()
			return result, true
		}
	}

	diag.NoMatchf(log, line, text)
	return nil, false
}

// coerce converts expr to expected.Type when they differ, leaving it
// untouched when expected.Type is nil (the "any type accepted" case used
// for VariableString interpolation segments).
func (p *Parser) coerce(expr Expression, expected types.PatternType, log diag.Sink, line int) (Expression, bool) {
	if expected.Type == nil || expr.ReturnType() == nil || expr.ReturnType() == expected.Type {
		return expr, true
	}
	converted, ok := expr.ConvertTo(expected.Type)
	if !ok {
		diag.Semanticf(log, line, "cannot use a %s where a %s is expected", expr.ReturnType().Name, expected.Type.Name)
		return nil, false
	}
	return converted, true
}

func (p *Parser) assignable(from, to string) bool {
	return p.Types.Assignable(from, to)
}

func plurality(single bool) string {
	if single {
		return "a single value"
	}
	return "multiple values"
}

// stripOuterParens removes one layer of parentheses when they span the
// entire string and are balanced throughout (so "(a) and (b)" is left
// alone, but "(a and b)" is unwrapped).
func stripOuterParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", false
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1]), true
}

// ConditionalMode selects how ParseBoolean enforces the Conditional
// capability marker (spec.md §4.4): MustBeConditional requires it (e.g.
// `continue if`'s guard), MustNotBeConditional forbids it, MayBeConditional
// accepts either.
type ConditionalMode int

const (
	MayBeConditional ConditionalMode = iota
	MustBeConditional
	MustNotBeConditional
)

// ParseBoolean implements spec.md §4.4's boolean-expression restriction:
// only `true`/`false` literals and expressions whose return type is the
// registered "boolean" class are accepted. The literal words `true` and
// `false` pass in every mode; other expressions are filtered by mode.
func (p *Parser) ParseBoolean(text string, mode ConditionalMode, ps *parserstate.State, log diag.Sink, line int) (Expression, bool) {
	boolType, ok := p.Types.Type("boolean")
	if !ok {
		diag.Exceptionf(log, line, "no boolean type registered")
		return nil, false
	}
	expr, ok := p.parseExpression(text, types.PatternType{Type: boolType, Single: true}, ps, log, line)
	if !ok {
		return nil, false
	}
	if word := strings.ToLower(strings.TrimSpace(text)); word == "true" || word == "false" {
		return expr, true
	}

	conditional, isConditional := expr.(syntax.ConditionalInstance)
	switch mode {
	case MustBeConditional:
		if !isConditional || !conditional.IsConditional() {
			diag.Semanticf(log, line, "%q cannot be used as a conditional", text)
			return nil, false
		}
	case MustNotBeConditional:
		if isConditional && conditional.IsConditional() {
			diag.Semanticf(log, line, "%q may not be used as a conditional here", text)
			return nil, false
		}
	}
	return expr, true
}
