package parse

import (
	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/parserstate"
)

// ResolveState bundles the two extra arguments spec.md §4.4's
// parse_expression(text, expected, state, log) signature carries
// alongside text and expected: the ParserState and the diagnostic log.
// pattern.Resolver's interface has room for exactly one opaque `state`
// argument (a Go method can only have one signature per name), so this
// is where both live.
type ResolveState struct {
	PS  *parserstate.State
	Log diag.Sink
}

// NewResolveState bundles a ParserState and a diagnostic sink for a
// single ExpressionPlaceholder resolution pass.
func NewResolveState(ps *parserstate.State, log diag.Sink) *ResolveState {
	return &ResolveState{PS: ps, Log: log}
}

// VariableResolver is spec.md §6's Variables collaborator contract:
// `{name}` / `{name::%index%}` recognition is delegated here rather
// than implemented in this engine, since variable storage itself is
// explicitly out of scope (spec.md §1).
type VariableResolver interface {
	ParseVariable(text string, expectedClass string, state *parserstate.State, log diag.Sink) (*Variable, bool)
}
