package diag

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest ranks candidates against text and returns the closest match, or
// "" if nothing scores as plausibly close. Used to attach a "did you
// mean" tip to a NO_MATCH diagnostic, the same way
// runtime/planner/planner.go in the teacher pack ranks command names
// with fuzzy.RankFindFold for its own unknown-decorator diagnostics.
func Suggest(text string, candidates []string) string {
	text = strings.TrimSpace(text)
	if text == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(firstWord(text), candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}

// NoMatchWithTip emits a NO_MATCH diagnostic whose Tip is a fuzzy
// suggestion picked from candidates, when one is close enough.
func NoMatchWithTip(sink Sink, line int, text string, candidates []string) {
	tip := Suggest(text, candidates)
	rec := Record{
		Message:   "no matching syntax for: " + text,
		Verbosity: Error,
		Line:      line,
		ErrorKind: NoMatch,
	}
	if tip != "" {
		rec.Tip = "did you mean '" + tip + "'?"
	}
	sink.Emit(rec)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}
