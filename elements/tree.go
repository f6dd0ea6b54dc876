package elements

import (
	"strings"

	"github.com/chaossafti/skript/diag"
)

// indentFrame is one open container on the indent stack: elem is the
// section whose children are currently being collected, and indent is
// the (lexically fixed, once established) indentation of those children.
type indentFrame struct {
	elem   *Element
	indent string // indentation shared by every direct child of elem
}

// Parse builds the file element tree for source, reporting STRUCTURE_ERROR
// diagnostics for indentation that doesn't match any open level (spec.md
// §4.1). The returned root is a synthetic Section (Line 0) whose Children
// are the file's top-level elements.
func Parse(source string, log diag.Sink) *Element {
	root := &Element{Kind: Section, Line: 0}
	stack := []*indentFrame{{elem: root, indent: ""}}
	// Void lines are held back until the next content line has picked its
	// container, so blank/comment lines join the block of the lines after them.
	var pendingVoids []*Element

	for _, ll := range splitLogicalLines(source) {
		content := trimTrailingSpace(ll.content)
		indentStr, rest := splitIndent(content)
		rest = trimTrailingSpace(rest)

		if rest == "" {
			pendingVoids = append(pendingVoids, &Element{Kind: Void, Line: ll.startLine, Raw: ll.raw})
			continue
		}

		top := stack[len(stack)-1]
		switch {
		case indentStr == top.indent:
			// sibling at the current level; stack unchanged.

		case isProperPrefix(top.indent, indentStr) && lastSiblingOf(top) != nil:
			parent := lastSiblingOf(top)
			parent.Kind = Section
			stack = append(stack, &indentFrame{elem: parent, indent: indentStr})

		default:
			if idx := findMatchingFrame(stack, indentStr); idx >= 0 {
				stack = stack[:idx+1]
			} else {
				diag.Structuref(log, ll.startLine, "inconsistent indentation")
				stack = recoverStack(stack, indentStr)
				continue
			}
		}

		for _, v := range pendingVoids {
			appendChild(stack, v)
		}
		pendingVoids = nil
		e := &Element{Kind: Simple, Line: ll.startLine, Indent: indentStr, Text: rest, Raw: ll.raw}
		appendChild(stack, e)
	}
	for _, v := range pendingVoids {
		appendChild(stack, v)
	}

	return root
}

func appendChild(stack []*indentFrame, e *Element) {
	top := stack[len(stack)-1]
	top.elem.Children = append(top.elem.Children, e)
}

func lastSiblingOf(f *indentFrame) *Element {
	kids := f.elem.Children
	for i := len(kids) - 1; i >= 0; i-- {
		if kids[i].Kind != Void {
			return kids[i]
		}
	}
	return nil
}

func isProperPrefix(parent, child string) bool {
	return len(child) > len(parent) && strings.HasPrefix(child, parent)
}

// findMatchingFrame returns the index of the deepest stack frame whose
// indent exactly equals indentStr, or -1 if no open level matches — the
// "dedent that does not match any previously-open indent level" error.
func findMatchingFrame(stack []*indentFrame, indentStr string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].indent == indentStr {
			return i
		}
	}
	return -1
}

// recoverStack drops frames deeper than indentStr so parsing can continue
// after a structure error, without attaching the offending line anywhere.
func recoverStack(stack []*indentFrame, indentStr string) []*indentFrame {
	for len(stack) > 1 && len(stack[len(stack)-1].indent) >= len(indentStr) {
		stack = stack[:len(stack)-1]
	}
	return stack
}
