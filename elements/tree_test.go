package elements

import (
	"testing"

	"github.com/chaossafti/skript/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLines(e *Element) int {
	n := 0
	Walk(e, func(x *Element) {
		if x.Line > 0 {
			n++
		}
	})
	return n
}

func TestIndentRoundTrip(t *testing.T) {
	src := "on load:\n\tset {x} to 5\n\tif true:\n\t\tset {y} to 1\n"
	log := diag.NewLog("t")
	root := Parse(src, log)

	var lines []int
	Walk(root, func(e *Element) {
		if e.Line > 0 {
			lines = append(lines, e.Line)
		}
	})
	require.Equal(t, []int{1, 2, 3, 4}, lines)
}

func TestVoidLinesAreBlankOrComment(t *testing.T) {
	src := "on load:\n\n\t# a comment\n\tset {x} to 5\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	require.Len(t, root.Children, 1)
	trigger := root.Children[0]
	require.Len(t, trigger.Children, 3)
	assert.Equal(t, Void, trigger.Children[0].Kind)
	assert.Equal(t, Void, trigger.Children[1].Kind)
	assert.Equal(t, Simple, trigger.Children[2].Kind)
}

func TestBackslashContinuation(t *testing.T) {
	src := "on load:\n\tset {x} to \\\n\t5\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	require.Len(t, root.Children, 1)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "set {x} to 5", root.Children[0].Children[0].Text)
}

func TestTrailingCommentStripped(t *testing.T) {
	src := "on load: # header comment\n\tset {x} to 5 # trailing\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "on load:", root.Children[0].Text)
	assert.Equal(t, "set {x} to 5", root.Children[0].Children[0].Text)
}

func TestEscapedHashIsNotAComment(t *testing.T) {
	src := `on load:` + "\n\tset {x} to \"a \\# b\"\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	assert.Equal(t, `set {x} to "a \# b"`, root.Children[0].Children[0].Text)
}

func TestHashInsideQuotedStringIsNotAComment(t *testing.T) {
	src := `on load:` + "\n\tset {x} to \"a # b\"\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	assert.Equal(t, `set {x} to "a # b"`, root.Children[0].Children[0].Text)
}

func TestInconsistentDedentIsStructureError(t *testing.T) {
	// Line 3 dedents to a two-space indent that was never opened.
	src := "on load:\n\tset {x} to 1\n  set {y} to 2\n"
	log := diag.NewLog("t")
	root := Parse(src, log)

	recs := log.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, diag.StructureError, recs[0].ErrorKind)
	assert.Equal(t, 3, recs[0].Line)

	// the offending line is skipped entirely
	require.Len(t, root.Children[0].Children, 1)
}

func TestEqualIndentMustBeLexicallyIdentical(t *testing.T) {
	// one child indented with a tab, the next with a tab+space: not equal.
	src := "on load:\n\tset {x} to 1\n\t set {y} to 2\n"
	log := diag.NewLog("t")
	root := Parse(src, log)

	// "\t set {y} to 2" is longer than "\t" and prefixed by it, so it
	// nests under the previous sibling instead of erroring.
	trigger := root.Children[0]
	require.Len(t, trigger.Children, 1)
	assert.Equal(t, Section, trigger.Children[0].Kind)
	require.Len(t, trigger.Children[0].Children, 1)
}

func TestDedentByTwoLevelsAtOnce(t *testing.T) {
	src := "on load:\n\tif true:\n\t\tset {x} to 1\nset {y} to 2\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	assert.Empty(t, log.Records())
	require.Len(t, root.Children, 2)
	assert.Equal(t, "set {y} to 2", root.Children[1].Text)
}

func TestIsBlock(t *testing.T) {
	src := "on load:\n\tset {x} to 5\n"
	log := diag.NewLog("t")
	root := Parse(src, log)
	assert.True(t, root.Children[0].IsBlock())
	assert.False(t, root.Children[0].Children[0].IsBlock())
}
