// Package invariant provides contract assertions for the skript engine.
//
// This package implements Tiger Style safety principles: assertions are a force
// multiplier for discovering bugs. Use Precondition to express function contracts
// and Invariant for internal consistency checks.
//
// All functions panic on violation - these are programming errors, not user errors.
// User-facing mistakes in script source are reported through diag.Log instead.
//
// There's no ExpectNoError here: every error this repo's code can return
// (a missing script file, a malformed pattern at registration time) is a
// real, reachable failure a caller must handle, not a broken invariant
// over already-validated input — so the postcondition-only helper has no
// honest call site and was dropped rather than wired for its own sake.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func (s *Script) Load(triggers map[*Trigger]struct{}) {
//	    invariant.Precondition(!s.loaded, "script %s is already loaded", s.Path)
//	    ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Use this for loop progress checks and state-consistency checks that should
// never be false if the rest of the package is correct.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// fail panics with a formatted message including call stack context.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
