package pattern

import "strings"

// scanTopLevel walks s and calls visit(i) for every byte offset that sits
// outside any parenthesis group, quoted string, or {variable} reference —
// the "simple character" positions spec.md §4.2 and §6 both lean on: the
// expression-placeholder prefix search uses them as candidate boundaries,
// and SplitList uses them to find and/or/nor separators that aren't buried
// inside a nested expression.
func scanTopLevel(s string, visit func(i int)) {
	depthParen := 0
	depthBrace := 0
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
			continue
		case c == '\\' && i+1 < len(s):
			i++
			continue
		case c == '"':
			inQuote = true
			continue
		case c == '(':
			depthParen++
			continue
		case c == ')':
			if depthParen > 0 {
				depthParen--
			}
			continue
		case c == '{':
			depthBrace++
			continue
		case c == '}':
			if depthBrace > 0 {
				depthBrace--
			}
			continue
		}
		if depthParen == 0 && depthBrace == 0 {
			visit(i)
		}
	}
}

// placeholderBoundaries returns, in ascending order, the candidate lengths
// an ExpressionPlaceholder should try when parsing the remainder s[at:] —
// every top-level character position (so a parenthesized group, quoted
// string, or {variable} is never split mid-way), always ending with the
// full remainder length.
func placeholderBoundaries(remainder string) []int {
	var out []int
	scanTopLevel(remainder, func(i int) {
		out = append(out, i+1)
	})
	if len(out) == 0 || out[len(out)-1] != len(remainder) {
		out = append(out, len(remainder))
	}
	return out
}

// SplitList splits s on top-level "," / "and" / "or" / "nor" separators,
// the way spec.md §4.2's list-splitting helper and §4.4's list-literal
// parsing both require: separators nested inside parens, quotes, or
// {variable} braces don't count. It reports an or-list when at least one
// word separator was found and none of them was "and"; commas do not
// affect the result, and a list with no word separator is an and-list.
func SplitList(s string) (items []string, isOr bool) {
	type sep struct {
		start, end int
		word       bool
	}
	var seps []sep
	scanTopLevel(s, func(i int) {
		if s[i] == ',' {
			seps = append(seps, sep{i, i + 1, false})
			return
		}
		if isWordBoundaryStart(s, i) {
			for _, w := range []string{"and", "or", "nor"} {
				if hasWordAt(s, i, w) {
					seps = append(seps, sep{i, i + len(w), true})
					return
				}
			}
		}
	})

	if len(seps) == 0 {
		return []string{s}, false
	}

	// List polarity is decided by the word separators alone; a comma is
	// neutral punctuation ("1, 2 or 3" is an or-list). No word separator
	// at all (a pure comma list) defaults to and-list.
	isOr = true
	hasWordSep := false
	prev := 0
	for _, sp := range seps {
		items = append(items, strings.TrimSpace(s[prev:sp.start]))
		prev = sp.end
		if sp.word {
			hasWordSep = true
			word := strings.TrimSpace(strings.ToLower(s[sp.start:sp.end]))
			if word == "and" {
				isOr = false
			}
		}
	}
	if !hasWordSep {
		isOr = false
	}
	items = append(items, strings.TrimSpace(s[prev:]))
	return items, isOr
}

func isWordBoundaryStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	return s[i-1] == ' ' || s[i-1] == '\t'
}

func hasWordAt(s string, i int, word string) bool {
	if i+len(word) > len(s) {
		return false
	}
	if !strings.EqualFold(s[i:i+len(word)], word) {
		return false
	}
	end := i + len(word)
	if end < len(s) && s[end] != ' ' && s[end] != '\t' {
		return false
	}
	return true
}
