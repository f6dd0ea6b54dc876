package pattern

import (
	"testing"

	"github.com/chaossafti/skript/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberType() *types.Type {
	return &types.Type{Class: "number", Name: "number", Plural: "numbers"}
}

func newTypeReg() *types.Registry {
	r := types.NewRegistry()
	r.Register(numberType())
	return r
}

// stubResolver accepts any text that parses as a float, per numberType.
type stubResolver struct{ calls []string }

func (s *stubResolver) ParseExpression(text string, pt types.PatternType, state interface{}) (interface{}, bool) {
	s.calls = append(s.calls, text)
	switch text {
	case "5", "10", "{x}":
		return text, true
	default:
		return nil, false
	}
}

func TestTextWhitespaceAndCaseTolerant(t *testing.T) {
	txt := NewText(" TO ")
	pos, ok := txt.match(NewContext(nil, nil), "x   to   y", 1)
	require.True(t, ok)
	assert.Equal(t, 9, pos)
}

func TestTextRequiresPositiveWhitespace(t *testing.T) {
	txt := NewText(" to ")
	_, ok := txt.match(NewContext(nil, nil), "xtoy", 1)
	assert.False(t, ok)
}

func TestOptionalRecordsAbsenceWithoutConsuming(t *testing.T) {
	opt := &Optional{Inner: []Element{NewText("really ")}}
	ctx := NewContext(nil, nil)
	pos, ok := opt.match(ctx, "set {x} to 5", 0)
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	require.Equal(t, []bool{false}, ctx.Optional)
}

func TestOptionalRecordsPresenceAndConsumes(t *testing.T) {
	opt := &Optional{Inner: []Element{NewText("really ")}}
	ctx := NewContext(nil, nil)
	pos, ok := opt.match(ctx, "really set", 0)
	require.True(t, ok)
	assert.Equal(t, len("really "), pos)
	assert.Equal(t, []bool{true}, ctx.Optional)
}

func TestChoiceCapturesMark(t *testing.T) {
	c, err := compileChoice("1¦add|2¦remove", newTypeReg())
	require.NoError(t, err)
	ctx := NewContext(nil, nil)
	pos, ok := c.match(ctx, "remove now", 0)
	require.True(t, ok)
	assert.Equal(t, len("remove"), pos)
	assert.Equal(t, []int{2}, ctx.Choices)
}

func TestChoiceWithoutMarkDefaultsToIndex(t *testing.T) {
	c, err := compileChoice("add|remove", newTypeReg())
	require.NoError(t, err)
	ctx := NewContext(nil, nil)
	_, ok := c.match(ctx, "add now", 0)
	require.True(t, ok)
	assert.Equal(t, []int{0}, ctx.Choices)
}

func TestExpressionPlaceholderTriesProgressivelyLongerPrefixes(t *testing.T) {
	p, err := Compile("set {x} to %number%", newTypeReg())
	require.NoError(t, err)
	res := &stubResolver{}
	ctx := NewContext(res, nil)
	pos, ok := Match(p, ctx, "set {x} to 5", 0)
	require.True(t, ok)
	assert.Equal(t, len("set {x} to 5"), pos)
	require.Len(t, ctx.Captures, 1)
	assert.Equal(t, "5", ctx.Captures[0])
}

func TestExpressionPlaceholderFailsWhenResolverNeverAccepts(t *testing.T) {
	p, err := Compile("set {x} to %number%", newTypeReg())
	require.NoError(t, err)
	res := &stubResolver{}
	ctx := NewContext(res, nil)
	_, ok := Match(p, ctx, "set {x} to nope", 0)
	assert.False(t, ok)
}

func TestCompileUnknownTypeErrors(t *testing.T) {
	_, err := Compile("%bogus%", newTypeReg())
	assert.Error(t, err)
}

func TestRegexElementMatchesAnchoredAtPosition(t *testing.T) {
	p, err := Compile(`id <[0-9]+>`, newTypeReg())
	require.NoError(t, err)
	ctx := NewContext(nil, nil)
	pos, ok := Match(p, ctx, "id 42", 0)
	require.True(t, ok)
	assert.Equal(t, len("id 42"), pos)
}

func TestSplitListCommaIsAndList(t *testing.T) {
	items, isOr := SplitList("{a}, {b}, {c}")
	assert.Equal(t, []string{"{a}", "{b}", "{c}"}, items)
	assert.False(t, isOr)
}

func TestSplitListAllOrIsOrList(t *testing.T) {
	items, isOr := SplitList("{a} or {b} or {c}")
	assert.Equal(t, []string{"{a}", "{b}", "{c}"}, items)
	assert.True(t, isOr)
}

func TestSplitListMixedSeparatorsIsAndList(t *testing.T) {
	_, isOr := SplitList("{a} and {b} or {c}")
	assert.False(t, isOr)
}

func TestSplitListSkipsNestedParensAndBraces(t *testing.T) {
	items, _ := SplitList("(1 or 2), {x}")
	assert.Equal(t, []string{"(1 or 2)", "{x}"}, items)
}

func TestOptionalGroupCompiles(t *testing.T) {
	// The optional group owns the boundary space (written inside the
	// brackets) so absence doesn't leave a stray double-space
	// requirement between "add" and "item".
	p, err := Compile("add[ the] item", newTypeReg())
	require.NoError(t, err)
	ctx := NewContext(nil, nil)
	pos, ok := Match(p, ctx, "add item", 0)
	require.True(t, ok)
	assert.Equal(t, len("add item"), pos)
	assert.Equal(t, []bool{false}, ctx.Optional)

	ctx2 := NewContext(nil, nil)
	pos2, ok2 := Match(p, ctx2, "add the item", 0)
	require.True(t, ok2)
	assert.Equal(t, len("add the item"), pos2)
	assert.Equal(t, []bool{true}, ctx2.Optional)
}
