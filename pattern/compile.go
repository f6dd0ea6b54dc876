package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chaossafti/skript/types"
)

// Compile parses pattern-DSL source into a matchable Pattern, resolving
// every %type% placeholder against typeReg up front so match-time never
// needs a name lookup. The grammar (spec.md §4.2, §6):
//
//	[...]          optional group
//	(a|b|c)        choice group; branches may carry a "N¦" mark
//	%type%         required expression placeholder
//	%*type%        plural-accepting placeholder
//	%-type%        literal-only placeholder
//	%~type%        accepted; the '~' flag has no effect
//	<regex>        embedded, anchored regular expression
//	\x             escapes x, including \[ \( \% \< and \\ itself
//	anything else  literal text, whitespace-tolerant (see Text)
func Compile(source string, typeReg *types.Registry) (*Pattern, error) {
	elems, rest, err := compileSequence(source, typeReg)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("pattern: unexpected %q", rest)
	}
	return &Pattern{Source: source, Elements: elems}, nil
}

// compileSequence compiles a run of elements until it hits an unescaped
// stopper character ('|', ']', ')') or runs out of input, returning
// whatever's left unconsumed (the stopper itself, if any) to the caller.
func compileSequence(s string, typeReg *types.Registry) ([]Element, string, error) {
	var elems []Element
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			elems = append(elems, NewText(text.String()))
			text.Reset()
		}
	}

	for len(s) > 0 {
		c := s[0]
		switch c {
		case '\\':
			if len(s) < 2 {
				return nil, "", fmt.Errorf("pattern: dangling backslash at end of %q", s)
			}
			text.WriteByte(s[1])
			s = s[2:]

		case '|', ']', ')':
			flush()
			return elems, s, nil

		case '[':
			flush()
			inner, rest, err := extractGroup(s[1:], '[', ']')
			if err != nil {
				return nil, "", err
			}
			innerElems, leftover, err := compileSequence(inner, typeReg)
			if err != nil {
				return nil, "", err
			}
			if leftover != "" {
				return nil, "", fmt.Errorf("pattern: unbalanced %q in optional group", leftover)
			}
			elems = append(elems, &Optional{Inner: innerElems})
			s = rest

		case '(':
			flush()
			inner, rest, err := extractGroup(s[1:], '(', ')')
			if err != nil {
				return nil, "", err
			}
			choice, err := compileChoice(inner, typeReg)
			if err != nil {
				return nil, "", err
			}
			elems = append(elems, choice)
			s = rest

		case '<':
			flush()
			inner, rest, err := extractDelimited(s[1:], '>')
			if err != nil {
				return nil, "", err
			}
			reElem, err := newRegexElement(inner)
			if err != nil {
				return nil, "", fmt.Errorf("pattern: bad regex %q: %w", inner, err)
			}
			elems = append(elems, reElem)
			s = rest

		case '%':
			flush()
			inner, rest, err := extractDelimited(s[1:], '%')
			if err != nil {
				return nil, "", err
			}
			ph, err := compilePlaceholder(inner, typeReg)
			if err != nil {
				return nil, "", err
			}
			elems = append(elems, ph)
			s = rest

		default:
			text.WriteByte(c)
			s = s[1:]
		}
	}

	flush()
	return elems, "", nil
}

// extractGroup scans s (the content right after an opening `open`) for
// the matching `close`, tracking nested open/close pairs, backslash
// escapes, and double-quoted strings so a close char inside either
// doesn't count. It returns the group's raw inner content and whatever
// trails after the matching close.
func extractGroup(s string, open, close byte) (inner, rest string, err error) {
	depth := 1
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '\\' && i+1 < len(s) {
				i++
				continue
			}
			if c == '"' {
				inQuote = false
			}
		case c == '\\' && i+1 < len(s):
			i++
		case c == '"':
			inQuote = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("pattern: unclosed %q group", string(open))
}

// extractDelimited finds the next unescaped occurrence of close (no
// nesting), used for %placeholder% and <regex> spans.
func extractDelimited(s string, close byte) (inner, rest string, err error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if c == close {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("pattern: unterminated %q span", string(close))
}

// compileChoice splits group content on top-level '|' and compiles each
// branch, stripping an optional leading "N¦" mark (spec.md §6).
func compileChoice(content string, typeReg *types.Registry) (*Choice, error) {
	branches := splitChoiceBranches(content)
	choice := &Choice{
		Alternatives: make([][]Element, len(branches)),
		Marks:        make([]int, len(branches)),
	}
	for i, branch := range branches {
		mark := i
		text := branch
		if idx := strings.IndexRune(branch, '¦'); idx >= 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(branch[:idx])); err == nil {
				mark = n
				text = branch[idx+len("¦"):]
			}
		}
		elems, leftover, err := compileSequence(text, typeReg)
		if err != nil {
			return nil, err
		}
		if leftover != "" {
			return nil, fmt.Errorf("pattern: unbalanced %q in choice branch", leftover)
		}
		choice.Alternatives[i] = elems
		choice.Marks[i] = mark
	}
	return choice, nil
}

// splitChoiceBranches splits on top-level '|', skipping over nested
// parens/brackets/quotes so a branch's own sub-groups aren't cut apart.
func splitChoiceBranches(s string) []string {
	var branches []string
	depth := 0
	inQuote := false
	inRegex := false
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '\\' && i+1 < len(s) {
				i++
				continue
			}
			if c == '"' {
				inQuote = false
			}
		case inRegex:
			if c == '>' {
				inRegex = false
			}
		case c == '\\' && i+1 < len(s):
			i++
		case c == '"':
			inQuote = true
		case c == '<':
			inRegex = true
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == '|' && depth == 0:
			branches = append(branches, s[last:i])
			last = i + 1
		}
	}
	branches = append(branches, s[last:])
	return branches
}

// compilePlaceholder parses the content between a %...% pair: optional
// flag characters (*, -, ~) followed by a type name, resolved against
// typeReg.
func compilePlaceholder(content string, typeReg *types.Registry) (*ExpressionPlaceholder, error) {
	ph := &ExpressionPlaceholder{}
	forcePlural := false
	literalOnly := false
	name := content
loop:
	for len(name) > 0 {
		switch name[0] {
		case '*':
			forcePlural = true
			name = name[1:]
		case '-':
			literalOnly = true
			name = name[1:]
		case '~':
			// %~type%: restricted-syntax class tag. The flag is stripped
			// and not acted on, since class-tag restriction is already enforced at the
			// statement level via ParserState.IsRestricted(info.ClassTag)
			// (spec.md §4.4 step 5e) — an expression-level restriction
			// marker has no additional documented semantics, and
			// spec.md §4.2 leaves "concrete flag syntax" registry-defined
			// rather than pinning down a second restriction mechanism.
			name = name[1:]
		default:
			break loop
		}
	}

	t, plural, ok := typeReg.ByName(name)
	if !ok {
		return nil, fmt.Errorf("pattern: unknown type %q in placeholder %%%s%%", name, content)
	}
	ph.PT = types.PatternType{Type: t, Single: !plural && !forcePlural, LiteralOnly: literalOnly}
	return ph, nil
}
