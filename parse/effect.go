package parse

import (
	"strings"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/elements"
	"github.com/chaossafti/skript/parserstate"
	"github.com/chaossafti/skript/pattern"
	"github.com/chaossafti/skript/syntax"
)

// continueIfPrefix is spec.md §4.6's case-insensitive inline-conditional
// marker.
const continueIfPrefix = "continue if "

// InlineCondition is the `continue if <condition>` guard statement
// spec.md §4.6 has parse_statement build directly, without going through
// the effect registry.
type InlineCondition struct {
	Condition Expression
	next      syntax.StatementInstance
}

func (c *InlineCondition) Init([]interface{}, int, *pattern.Context) bool { return true }
func (c *InlineCondition) SetNext(next syntax.StatementInstance)          { c.next = next }
func (c *InlineCondition) Next() syntax.StatementInstance                 { return c.next }

// ConditionalKind distinguishes an `if` clause that opens a new chain
// from an `else if` / `else` clause attached as a falling alternative
// (spec.md §4.7).
type ConditionalKind int

const (
	ConditionalIf ConditionalKind = iota
	ConditionalElseIf
	ConditionalElse
)

// Conditional is the `if` / `else if` / `else` block node spec.md §4.7
// builds while walking a section's children: Body is the head of the
// nested chain parsed from this clause's own children, and Falling links
// to the following `else if`/`else` clause, if any.
type Conditional struct {
	Kind      ConditionalKind
	Condition Expression // nil for ConditionalElse
	Body      syntax.StatementInstance
	Falling   *Conditional

	next syntax.StatementInstance
}

func (c *Conditional) Init([]interface{}, int, *pattern.Context) bool { return true }
func (c *Conditional) SetNext(next syntax.StatementInstance)          { c.next = next }
func (c *Conditional) Next() syntax.StatementInstance                 { return c.next }

// ParseStatement implements spec.md §4.6's small router: a `continue if `
// prefix is an inline conditional guard; everything else is an effect.
func (p *Parser) ParseStatement(text string, ps *parserstate.State, log diag.Sink, line int) (syntax.StatementInstance, bool) {
	if rest, ok := trimPrefixFold(text, continueIfPrefix); ok {
		cond, ok := p.ParseBoolean(rest, MustBeConditional, ps, log, line)
		if !ok {
			return nil, false
		}
		return &InlineCondition{Condition: cond}, true
	}
	return p.ParseEffect(text, ps, log, line)
}

// ParseEffect implements spec.md §4.6: the §4.4 dispatch skeleton without
// return-type coercion, against the Effect registry.
func (p *Parser) ParseEffect(text string, ps *parserstate.State, log diag.Sink, line int) (syntax.StatementInstance, bool) {
	instance, _, ok := p.dispatchStatement(syntax.KindEffect, text, ps, log, line)
	if !ok {
		return nil, false
	}
	stmt, ok := instance.(syntax.StatementInstance)
	if !ok {
		diag.Exceptionf(log, line, "%q did not produce a statement", text)
		return nil, false
	}
	return stmt, true
}

// ParseSection implements spec.md §4.6: matches body's header text
// against the Section registry, then recurses into body's children via
// LoadSection (which itself calls back into LoadItems, §4.7).
func (p *Parser) ParseSection(body *elements.Element, ps *parserstate.State, log diag.Sink) (syntax.SectionInstance, bool) {
	instance, _, ok := p.dispatchStatement(syntax.KindSection, headerText(body), ps, log, body.Line)
	if !ok {
		return nil, false
	}
	section, ok := instance.(syntax.SectionInstance)
	if !ok {
		diag.Exceptionf(log, body.Line, "%q did not produce a section", body.Text)
		return nil, false
	}
	if err := section.LoadSection(body, ps, log); err != nil {
		diag.Exceptionf(log, body.Line, "%s", err.Error())
		return nil, false
	}
	return section, true
}

// Trigger wraps a finalized event instance bound to its statement chain.
type Trigger struct {
	Event *syntax.Info
	Instance syntax.EventInstance
	Chain syntax.StatementInstance
}

// UnloadedTrigger is a trigger whose header matched an event but whose
// body hasn't been parsed yet (spec.md §4.6), deferred so all triggers in
// a script can be priority-sorted before any of their bodies recurse.
type UnloadedTrigger struct {
	Event   *syntax.Info
	Instance syntax.EventInstance
	Section *elements.Element
	State   *parserstate.State
}

// LoadBody parses Section's children into the trigger's statement chain
// (spec.md §4.6 step 6: "call trigger.load_section(...)").
func (u *UnloadedTrigger) LoadBody(p *Parser, log diag.Sink) (*Trigger, error) {
	chain, err := p.LoadItems(u.Section.Children, u.State, log)
	if err != nil {
		return nil, err
	}
	return &Trigger{Event: u.Event, Instance: u.Instance, Chain: chain}, nil
}

// ParseTrigger implements spec.md §4.6: matches a section's header line
// against the Event registry, instantiates + initializes the event, and
// returns an UnloadedTrigger with a fresh ParserState seeded from the
// event's handled contexts (body parsing deferred per spec.md §4.8).
func (p *Parser) ParseTrigger(section *elements.Element, log diag.Sink) (*UnloadedTrigger, bool) {
	instance, info, ok := p.dispatchStatement(syntax.KindEvent, headerText(section), parserstate.New(), log, section.Line)
	if !ok {
		return nil, false
	}
	eventInstance, ok := instance.(syntax.EventInstance)
	if !ok {
		diag.Exceptionf(log, section.Line, "%q did not produce an event", section.Text)
		return nil, false
	}
	state := parserstate.ForTrigger(info)
	if len(info.HandledContexts) > 0 {
		state.Restrict(info.HandledContexts...)
	}
	return &UnloadedTrigger{Event: info, Instance: eventInstance, Section: section, State: state}, true
}

// dispatchStatement is the shared §4.4-style walk used by ParseEffect,
// ParseSection, and ParseTrigger: recency-then-remainder, pattern match,
// instantiate, init — with no return-type coercion (only expressions
// carry a return type to coerce).
func (p *Parser) dispatchStatement(kind syntax.Kind, text string, ps *parserstate.State, log diag.Sink, line int) (syntax.Instance, *syntax.Info, bool) {
	trimmed := strings.TrimSpace(text)
	for _, info := range p.Syntax.Candidates(kind) {
		for patIdx, pat := range info.Patterns {
			// As in parseExpression's step-5 walk (spec.md §7): a failed
			// attempt's diagnostics are speculative and discarded, not
			// surfaced alongside whatever eventually matches (or the final
			// NoMatchf below, on total failure).
			attempt := log.Recurse("matching " + info.ClassTag)
			ctx := pattern.NewContext(p, NewResolveState(ps, attempt))
			end, ok := pattern.Match(pat, ctx, trimmed, 0)
			if !ok || end != len(trimmed) {
				attempt.Discard()
				continue
			}
			instance, err := p.Syntax.Instantiate(kind, info)
			if err != nil {
				diag.Exceptionf(attempt, line, "%s", err.Error())
				attempt.Discard()
				continue
			}
			if !instance.Init(ctx.Captures, patIdx, ctx) {
				attempt.Discard()
				continue
			}
			if info.ClassTag != "" && ps.IsRestricted(info.ClassTag) {
				diag.Restrictedf(attempt, line, "%q is not allowed in this context", trimmed)
				attempt.Discard()
				continue
			}
			p.Syntax.Acknowledge(kind, info)
			attempt.Commit()
			return instance, info, true
		}
	}
	diag.NoMatchf(log, line, trimmed)
	return nil, nil, false
}

// headerText strips a Section's trailing colon, the conventional block
// marker, before matching it against Section/Event patterns.
func headerText(e *elements.Element) string {
	t := strings.TrimSpace(e.Text)
	return strings.TrimSuffix(t, ":")
}

func trimPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
