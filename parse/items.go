package parse

import (
	"strings"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/elements"
	"github.com/chaossafti/skript/parserstate"
	"github.com/chaossafti/skript/syntax"
)

// LoadItems implements spec.md §4.7: walks a section's children in
// order, building each into a statement node (Conditional, Section, or
// plain statement), then links the accepted nodes into a forward `next`
// chain. Restricted-syntax checks (spec.md §4.4 step 5e) apply equally
// to every admitted node via ParseStatement/ParseSection/ParseTrigger's
// own restricted-syntax check — LoadItems itself only handles structural
// routing.
func (p *Parser) LoadItems(children []*elements.Element, ps *parserstate.State, log diag.Sink) (syntax.StatementInstance, error) {
	var accepted []syntax.StatementInstance
	var lastConditional *Conditional

	for _, child := range children {
		if child.Kind == elements.Void {
			continue
		}

		if child.Kind == elements.Section {
			if kind, ok := conditionalKindOf(child.Text); ok {
				node, ok := p.loadConditional(child, kind, ps, log)
				if !ok {
					continue
				}
				if kind == ConditionalIf {
					accepted = append(accepted, node)
					lastConditional = node
				} else {
					if lastConditional == nil || lastConditional.Kind == ConditionalElse {
						if kind == ConditionalElse {
							diag.Structuref(log, child.Line, ErrStrayElse)
						} else {
							diag.Structuref(log, child.Line, ErrStrayElseIf)
						}
						continue
					}
					attachFalling(lastConditional, node)
					lastConditional = node
				}
				continue
			}

			section, ok := p.ParseSection(child, ps, log)
			if !ok {
				continue
			}
			accepted = append(accepted, section)
			lastConditional = nil
			continue
		}

		stmt, ok := p.ParseStatement(child.Text, ps, log, child.Line)
		if !ok {
			continue
		}
		accepted = append(accepted, stmt)
		lastConditional = nil
	}

	for i := 0; i+1 < len(accepted); i++ {
		accepted[i].SetNext(accepted[i+1])
	}
	if len(accepted) == 0 {
		return nil, nil
	}
	return accepted[0], nil
}

// Stray else/else-if structure error messages (spec.md §4.7, §8 S5),
// shared between LoadItems (nested placement) and the loader's cold-parse
// pass (top-level placement — there's never a preceding Conditional to
// attach to there).
const (
	ErrStrayElse   = "An 'else' must be placed after an 'if' or an 'else if'"
	ErrStrayElseIf = "An 'else if' must be placed after an 'if' or an 'else if'"
)

// ConditionalHeaderKind reports whether header (a section's raw text,
// trailing colon included or not) opens an if/else-if/else clause.
func ConditionalHeaderKind(header string) (ConditionalKind, bool) {
	return conditionalKindOf(header)
}

// conditionalKindOf reports whether header begins `if `, `else if `, or
// equals/begins `else` (case-insensitive), per spec.md §4.7.
func conditionalKindOf(header string) (ConditionalKind, bool) {
	h := strings.TrimSpace(header)
	lower := strings.ToLower(h)
	switch {
	case strings.HasPrefix(lower, "else if "):
		return ConditionalElseIf, true
	case lower == "else" || strings.HasPrefix(lower, "else:"):
		return ConditionalElse, true
	case strings.HasPrefix(lower, "if "):
		return ConditionalIf, true
	default:
		return 0, false
	}
}

// loadConditional parses one if/else-if/else clause's own condition (if
// any) and recurses into its children via LoadItems for the clause body.
func (p *Parser) loadConditional(section *elements.Element, kind ConditionalKind, ps *parserstate.State, log diag.Sink) (*Conditional, bool) {
	header := strings.TrimSuffix(strings.TrimSpace(section.Text), ":")
	var cond Expression
	switch kind {
	case ConditionalIf:
		rest, _ := trimPrefixFold(header, "if ")
		expr, ok := p.ParseBoolean(rest, MayBeConditional, ps, log, section.Line)
		if !ok {
			return nil, false
		}
		cond = expr
	case ConditionalElseIf:
		rest, _ := trimPrefixFold(header, "else if ")
		expr, ok := p.ParseBoolean(rest, MayBeConditional, ps, log, section.Line)
		if !ok {
			return nil, false
		}
		cond = expr
	case ConditionalElse:
		// no condition
	}

	body, err := p.LoadItems(section.Children, ps, log)
	if err != nil {
		diag.Exceptionf(log, section.Line, "%s", err.Error())
		return nil, false
	}
	return &Conditional{Kind: kind, Condition: cond, Body: body}, true
}

// attachFalling walks to the end of root's Falling chain and appends
// next there, so a third+ else-if/else clause attaches to the previous
// one rather than overwriting it.
func attachFalling(root *Conditional, next *Conditional) {
	cur := root
	for cur.Falling != nil {
		cur = cur.Falling
	}
	cur.Falling = next
}
