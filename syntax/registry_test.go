package syntax

import (
	"testing"

	"github.com/chaossafti/skript/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// namedInstance is a minimal Instance used purely to exercise
// registry-level ordering/dispatch behavior — its Init always succeeds.
type namedInstance string

func (n namedInstance) Init(captures []interface{}, patternIndex int, parseResult *pattern.Context) bool {
	return true
}

func info(tag string, priority int) *Info {
	return &Info{ClassTag: tag, Priority: priority, Factory: func() Instance { return namedInstance(tag) }}
}

func tags(infos []*Info) []string {
	out := make([]string, len(infos))
	for i, inf := range infos {
		out[i] = inf.ClassTag
	}
	return out
}

func TestRegisterOrdersByPriorityDescending(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(KindEffect, info("low", 1)))
	require.NoError(t, r.Register(KindEffect, info("high", 10)))
	require.NoError(t, r.Register(KindEffect, info("mid", 5)))

	assert.Equal(t, []string{"high", "mid", "low"}, tags(r.All(KindEffect)))
}

func TestRegisterIsStableWithinEqualPriority(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(KindEffect, info("first", 5)))
	require.NoError(t, r.Register(KindEffect, info("second", 5)))
	require.NoError(t, r.Register(KindEffect, info("third", 5)))

	assert.Equal(t, []string{"first", "second", "third"}, tags(r.All(KindEffect)))
}

func TestRegisterRejectsDuplicateTag(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(KindEffect, info("set", 0)))
	err := r.Register(KindEffect, info("set", 0))
	assert.Error(t, err)
}

func TestCandidatesWalksRecencyThenRemainder(t *testing.T) {
	r := NewRegistry()
	a, b, c := info("a", 0), info("b", 0), info("c", 0)
	require.NoError(t, r.Register(KindExpression, a))
	require.NoError(t, r.Register(KindExpression, b))
	require.NoError(t, r.Register(KindExpression, c))

	r.Acknowledge(KindExpression, b)
	assert.Equal(t, []string{"b", "a", "c"}, tags(r.Candidates(KindExpression)))

	r.Acknowledge(KindExpression, c)
	assert.Equal(t, []string{"c", "b", "a"}, tags(r.Candidates(KindExpression)))
}

func TestAcknowledgeIsDedupPreserving(t *testing.T) {
	r := NewRegistry()
	a, b := info("a", 0), info("b", 0)
	require.NoError(t, r.Register(KindExpression, a))
	require.NoError(t, r.Register(KindExpression, b))

	r.Acknowledge(KindExpression, a)
	r.Acknowledge(KindExpression, b)
	r.Acknowledge(KindExpression, a)

	assert.Equal(t, []string{"a", "b"}, tags(r.Candidates(KindExpression)))
}

func TestInstantiateRunsValidators(t *testing.T) {
	r := NewRegistry()
	called := false
	r.AddValidator(func(kind Kind, inf *Info, instance Instance) error {
		called = true
		return nil
	})
	inf := info("set", 0)
	require.NoError(t, r.Register(KindEffect, inf))

	_, err := r.Instantiate(KindEffect, inf)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestInstantiateValidatorVeto(t *testing.T) {
	r := NewRegistry()
	r.AddValidator(func(kind Kind, inf *Info, instance Instance) error {
		return &ParsingDisallowedError{Reason: "nope"}
	})
	inf := info("set", 0)
	require.NoError(t, r.Register(KindEffect, inf))

	_, err := r.Instantiate(KindEffect, inf)
	require.Error(t, err)
	var disallowed *ParsingDisallowedError
	assert.ErrorAs(t, err, &disallowed)
}

func TestValidateDataBagRejectsMismatch(t *testing.T) {
	schema := `{"type":"object","properties":{"n":{"type":"integer"}},"required":["n"]}`
	err := ValidateDataBag(map[string]interface{}{"n": "not a number"}, schema)
	assert.Error(t, err)
}

func TestValidateDataBagAcceptsMatch(t *testing.T) {
	schema := `{"type":"object","properties":{"n":{"type":"integer"}},"required":["n"]}`
	err := ValidateDataBag(map[string]interface{}{"n": 5}, schema)
	assert.NoError(t, err)
}

func TestValidateDataBagSkippedWhenSchemaEmpty(t *testing.T) {
	err := ValidateDataBag(map[string]interface{}{"anything": true}, "")
	assert.NoError(t, err)
}
