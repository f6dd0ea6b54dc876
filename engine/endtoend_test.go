package engine

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/parse"
	"github.com/chaossafti/skript/parserstate"
	"github.com/chaossafti/skript/pattern"
	"github.com/chaossafti/skript/syntax"
	"github.com/chaossafti/skript/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This file encodes spec.md §8's literal end-to-end scenarios S1-S6
// against a minimal registration: one event (`on load`), one effect
// (`set %number% to %*numbers%`), and a number literal type.

func numberType() *types.Type {
	return &types.Type{
		Class:  "number",
		Name:   "number",
		Plural: "numbers",
		Parse: func(text string) (interface{}, bool) {
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, false
			}
			return v, true
		},
		String: func(v interface{}, debug bool) string {
			return strconv.FormatFloat(v.(float64), 'g', -1, 64)
		},
	}
}

func boolType() *types.Type {
	return &types.Type{
		Class: "boolean",
		Name:  "boolean",
		Parse: func(text string) (interface{}, bool) {
			switch strings.ToLower(text) {
			case "true":
				return true, true
			case "false":
				return false, true
			}
			return nil, false
		},
		String: func(v interface{}, debug bool) string {
			if v.(bool) {
				return "true"
			}
			return "false"
		},
	}
}

type setVariables struct{}

func (setVariables) ParseVariable(text, expectedClass string, ps *parserstate.State, log diag.Sink) (*parse.Variable, bool) {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return nil, false
	}
	return &parse.Variable{Name: text[1 : len(text)-1]}, true
}

// effectSet models `set %number% to %*numbers%`, spec.md §8's S2/S3/S4
// fixture effect.
type effectSet struct {
	Target, Value parse.Expression
	next          syntax.StatementInstance
}

func (e *effectSet) Init(captures []interface{}, patternIndex int, parseResult *pattern.Context) bool {
	target, ok := captures[0].(parse.Expression)
	if !ok {
		return false
	}
	value, ok := captures[1].(parse.Expression)
	if !ok {
		return false
	}
	e.Target, e.Value = target, value
	return true
}
func (e *effectSet) SetNext(next syntax.StatementInstance) { e.next = next }
func (e *effectSet) Next() syntax.StatementInstance        { return e.next }

type onLoadEvent struct {
	unloaded bool
}

func (e *onLoadEvent) Init([]interface{}, int, *pattern.Context) bool { return true }
func (e *onLoadEvent) Register(trigger interface{}, bus syntax.EventBus) {
	if bus != nil {
		bus.Register(trigger)
	}
}
func (e *onLoadEvent) OnUnload() { e.unloaded = true }

type fakeEventBus struct {
	registered []interface{}
	calls      []string
}

func (b *fakeEventBus) Register(trigger interface{}) { b.registered = append(b.registered, trigger) }
func (b *fakeEventBus) Call(name string, ctx interface{}) { b.calls = append(b.calls, name) }

func newFixtureEngine(t *testing.T, bus *fakeEventBus) *Engine {
	t.Helper()
	var opts []Option
	opts = append(opts, WithVariables(setVariables{}))
	if bus != nil {
		opts = append(opts, WithEventBus(bus))
	}
	e := New(opts...)
	e.Types.Register(numberType())
	e.Types.Register(boolType())

	n, _ := e.Types.Type("number")

	onLoadPat, err := pattern.Compile("on load", e.Types)
	require.NoError(t, err)
	require.NoError(t, e.Syntax.Register(syntax.KindEvent, &syntax.Info{
		ClassTag:        "on_load",
		Patterns:        []*pattern.Pattern{onLoadPat},
		LoadingPriority: 0,
		Factory:         func() syntax.Instance { return &onLoadEvent{} },
	}))

	setPat, err := pattern.Compile("set %number% to %*numbers%", e.Types)
	require.NoError(t, err)
	require.NoError(t, e.Syntax.Register(syntax.KindEffect, &syntax.Info{
		ClassTag: "effect_set",
		Patterns: []*pattern.Pattern{setPat},
		Factory:  func() syntax.Instance { return &effectSet{} },
	}))
	_ = n
	return e
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sk")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestS1CodeOutsideTrigger(t *testing.T) {
	e := newFixtureEngine(t, nil)
	path := writeFixture(t, "set {x} to 5\n")

	result, err := e.Load(path)
	require.NoError(t, err)
	assert.Empty(t, result.Script.Triggers)

	recs := result.Log.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, diag.StructureError, recs[0].ErrorKind)
	assert.Equal(t, 1, recs[0].Line)
	assert.Contains(t, recs[0].Message, "code outside of a trigger")
}

func TestS2SingleTriggerSingleEffect(t *testing.T) {
	e := newFixtureEngine(t, nil)
	path := writeFixture(t, "on load:\n\tset {x} to 5\n")

	result, err := e.Load(path)
	require.NoError(t, err)
	require.Len(t, result.Script.Triggers, 1)

	trig := result.Script.Triggers[0]
	set, ok := trig.Chain.(*effectSet)
	require.True(t, ok)
	assert.Nil(t, set.Next())

	v, ok := set.Target.(*parse.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
	assert.Equal(t, []interface{}{5.0}, set.Value.GetValues(nil))
}

func TestS3ListLiteralAndFlag(t *testing.T) {
	e := newFixtureEngine(t, nil)
	path := writeFixture(t, "on load:\n\tset {x} to 1, 2 and 3\n")

	result, err := e.Load(path)
	require.NoError(t, err)
	require.Len(t, result.Script.Triggers, 1)

	set := result.Script.Triggers[0].Chain.(*effectSet)
	list, ok := set.Value.(*parse.LiteralList)
	require.True(t, ok)
	assert.True(t, list.AndList)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, list.Values)
}

func TestS4IfElseConditional(t *testing.T) {
	e := newFixtureEngine(t, nil)
	path := writeFixture(t, "on load:\n\tif true:\n\t\tset {x} to 1\n\telse:\n\t\tset {x} to 2\n")

	result, err := e.Load(path)
	require.NoError(t, err)
	require.Len(t, result.Script.Triggers, 1)

	cond, ok := result.Script.Triggers[0].Chain.(*parse.Conditional)
	require.True(t, ok)
	assert.Equal(t, parse.ConditionalIf, cond.Kind)
	require.NotNil(t, cond.Body)
	_, ok = cond.Body.(*effectSet)
	assert.True(t, ok)

	require.NotNil(t, cond.Falling)
	assert.Equal(t, parse.ConditionalElse, cond.Falling.Kind)
	_, ok = cond.Falling.Body.(*effectSet)
	assert.True(t, ok)
}

func TestS5StrayElseAtTopLevel(t *testing.T) {
	e := newFixtureEngine(t, nil)
	path := writeFixture(t, "on load:\n\tset {x} to 5\nelse:\n\tset {x} to 6\n")

	result, err := e.Load(path)
	require.NoError(t, err)
	require.Len(t, result.Script.Triggers, 1, "the first trigger must still be accepted")

	found := false
	for _, r := range result.Log.Records() {
		if r.ErrorKind == diag.StructureError && strings.Contains(r.Message, "else") {
			found = true
			assert.Equal(t, 3, r.Line)
		}
	}
	assert.True(t, found, "expected a structure error for the stray else")
}

func TestS6ReloadPreservesIdentityAndFiresOnUnload(t *testing.T) {
	bus := &fakeEventBus{}
	e := newFixtureEngine(t, bus)
	path := writeFixture(t, "on load:\n\tset {x} to 1\non load:\n\tset {x} to 2\n")

	result, err := e.Load(path)
	require.NoError(t, err)
	require.Len(t, result.Script.Triggers, 2)
	original := result.Script
	originalInstances := make([]*onLoadEvent, 0, 2)
	for _, trig := range original.Triggers {
		originalInstances = append(originalInstances, trig.Instance.(*onLoadEvent))
	}

	require.NoError(t, os.WriteFile(path, []byte("on load:\n\tset {x} to 1\n"), 0o644))
	result2, err := e.Reload(original)
	require.NoError(t, err)

	assert.Same(t, original, result2.Script)
	assert.Len(t, result2.Script.Triggers, 1)
	for _, inst := range originalInstances {
		assert.True(t, inst.unloaded, "on_unload must fire for every original trigger")
	}
}
