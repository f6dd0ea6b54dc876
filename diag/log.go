package diag

import (
	"sync"

	"github.com/chaossafti/skript/internal/invariant"
)

// Log is the top-level diagnostic collector for one script load. It is
// safe for concurrent use since a script's loader may run on its own
// goroutine while other scripts load in parallel (spec.md §5).
type Log struct {
	mu      sync.Mutex
	script  string
	records []Record
	trail   []string
}

// NewLog creates a diagnostic log for the named script (its path).
func NewLog(script string) *Log {
	return &Log{script: script}
}

// Script returns the script path this log was created for.
func (l *Log) Script() string { return l.script }

// Emit appends a record, stamping it with the log's script identity.
func (l *Log) Emit(r Record) {
	r.Script = l.script
	if len(r.ContextTrail) == 0 {
		r.ContextTrail = append([]string(nil), l.trail...)
	}
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()
}

func (l *Log) context() []string { return l.trail }

// Records returns a snapshot of all committed records, in emission order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// HasErrors reports whether any record carries an ErrorKind.
func (l *Log) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.ErrorKind != NoErrorKind {
			return true
		}
	}
	return false
}

// Recurse opens a scoped sub-sink for a speculative sub-parse. Records
// emitted into the returned Scope are invisible to the parent Log until
// Commit is called; Discard (or simply letting the Scope go out of scope)
// drops them. This implements spec.md §7's discard rule: a failed
// candidate pattern's diagnostics never reach the surfaced log.
func (l *Log) Recurse(contextNote string) *Scope {
	trail := append(append([]string(nil), l.trail...), contextNote)
	return &Scope{parent: l, trail: trail}
}

// WithContext returns a Log-like Sink that stamps emitted records with an
// extra context-trail entry, without the commit/discard semantics of Recurse.
// Used for non-speculative context, e.g. "initializing".
func (l *Log) WithContext(note string) Sink {
	return &Scope{parent: l, trail: append(append([]string(nil), l.trail...), note), committed: true}
}

// Scope is a speculative diagnostic sink returned by Log.Recurse.
type Scope struct {
	parent    Sink
	trail     []string
	records   []Record
	committed bool // true for WithContext scopes, which always pass through
}

func (s *Scope) context() []string { return s.trail }

// Emit buffers a record (or, for a non-speculative WithContext scope,
// passes it straight through to the parent).
func (s *Scope) Emit(r Record) {
	if len(r.ContextTrail) == 0 {
		r.ContextTrail = append([]string(nil), s.trail...)
	}
	if s.committed {
		s.parent.Emit(r)
		return
	}
	s.records = append(s.records, r)
}

// Commit merges this scope's buffered records into its parent.
func (s *Scope) Commit() {
	if s.committed {
		return
	}
	invariant.Invariant(s.parent != nil, "scope %v committed with no parent sink", s.trail)
	for _, r := range s.records {
		s.parent.Emit(r)
	}
	s.records = nil
}

// Discard drops this scope's buffered records. Equivalent to never
// calling Commit, spelled out for readability at call sites.
func (s *Scope) Discard() {
	s.records = nil
}

// Recurse opens a nested speculative scope chained off this one.
func (s *Scope) Recurse(contextNote string) *Scope {
	trail := append(append([]string(nil), s.trail...), contextNote)
	return &Scope{parent: s, trail: trail}
}
