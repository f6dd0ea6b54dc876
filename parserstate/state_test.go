package parserstate

import (
	"testing"

	"github.com/chaossafti/skript/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictAndRelease(t *testing.T) {
	s := New()
	assert.False(t, s.IsRestricted("continue"))

	release := s.Restrict("continue")
	assert.True(t, s.IsRestricted("continue"))

	release()
	assert.False(t, s.IsRestricted("continue"))
}

func TestRestrictNestingIsReferenceCounted(t *testing.T) {
	s := New()
	releaseOuter := s.Restrict("loop")
	releaseInner := s.Restrict("loop")

	releaseInner()
	assert.True(t, s.IsRestricted("loop"), "outer scope still holds the restriction")

	releaseOuter()
	assert.False(t, s.IsRestricted("loop"))
}

func TestChainPushPop(t *testing.T) {
	s := New()
	assert.Nil(t, s.CurrentChain())

	s.PushChain("outer")
	s.PushChain("inner")
	assert.Equal(t, "inner", s.CurrentChain())

	s.PopChain()
	assert.Equal(t, "outer", s.CurrentChain())

	s.PopChain()
	assert.Nil(t, s.CurrentChain())
}

func TestEnterPlaceholderDepthLimit(t *testing.T) {
	s := New()
	s.maxPlaceholder = 2

	leave1, err := s.EnterPlaceholder()
	require.NoError(t, err)
	leave2, err := s.EnterPlaceholder()
	require.NoError(t, err)

	_, err = s.EnterPlaceholder()
	assert.Error(t, err)

	leave2()
	leave1()

	_, err = s.EnterPlaceholder()
	assert.NoError(t, err)
}

func TestForTriggerSeedsCurrentEvent(t *testing.T) {
	event := &syntax.Info{ClassTag: "on_load"}
	s := ForTrigger(event)
	assert.Same(t, event, s.CurrentEvent)
}
