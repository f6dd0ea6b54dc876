package diag

import "fmt"

// NoMatchf emits a NO_MATCH diagnostic: no registered syntax matched text
// at the given line. Per spec.md §7 this is only surfaced once all
// candidates have been tried; callers are expected to emit it on the
// sink that ultimately gets committed (or the top-level Log directly).
func NoMatchf(sink Sink, line int, text string) {
	sink.Emit(Record{
		Message:   "no matching syntax for: " + text,
		Verbosity: Error,
		Line:      line,
		ErrorKind: NoMatch,
	})
}

// Semanticf emits a SEMANTIC_ERROR: a pattern matched but the resulting
// binding was rejected (wrong plurality, unconvertible type, ...).
func Semanticf(sink Sink, line int, format string, args ...interface{}) {
	sink.Emit(Record{
		Message:   sprintf(format, args...),
		Verbosity: Error,
		Line:      line,
		ErrorKind: SemanticError,
	})
}

// Structuref emits a STRUCTURE_ERROR: malformed file structure (bad
// indentation, stray else, code outside a trigger, ...).
func Structuref(sink Sink, line int, format string, args ...interface{}) {
	sink.Emit(Record{
		Message:   sprintf(format, args...),
		Verbosity: Error,
		Line:      line,
		ErrorKind: StructureError,
	})
}

// Malformedf emits a MALFORMED_INPUT diagnostic, e.g. recursion depth
// exceeded or an unterminated quoted string.
func Malformedf(sink Sink, line int, format string, args ...interface{}) {
	sink.Emit(Record{
		Message:   sprintf(format, args...),
		Verbosity: Error,
		Line:      line,
		ErrorKind: MalformedInput,
	})
}

// Restrictedf emits a RESTRICTED_SYNTAX diagnostic: the matched element's
// class is forbidden in the current parser state.
func Restrictedf(sink Sink, line int, format string, args ...interface{}) {
	sink.Emit(Record{
		Message:   sprintf(format, args...),
		Verbosity: Error,
		Line:      line,
		ErrorKind: RestrictedSyntax,
	})
}

// Exceptionf emits an EXCEPTION diagnostic: an init validator vetoed
// instantiation via ParsingDisallowed.
func Exceptionf(sink Sink, line int, format string, args ...interface{}) {
	sink.Emit(Record{
		Message:   sprintf(format, args...),
		Verbosity: Error,
		Line:      line,
		ErrorKind: Exception,
	})
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
