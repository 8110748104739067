// Package invariant provides contract assertions for the chain model and its
// consumers.
//
// Assertions guard programming errors, not user input: a malformed macro body
// is reported through parser errors, while a builder that emits a chain
// without an Initial head is a bug and panics here.
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
//	func Generate(chains []expr.Chain) (string, error) {
//	    invariant.Precondition(len(chains) > 0, "at least one chain required")
//	    // ...
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
// Panics with POSTCONDITION VIOLATION if condition is false.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency during execution, e.g. that a
// token cursor advanced on every loop iteration.
// Panics with INVARIANT VIOLATION if condition is false.
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

// Unreachable panics unconditionally. Use it as the default arm of an
// exhaustive switch over a closed kind set.
//
// Example:
//
//	switch k {
//	case ProcessMap:
//	    ...
//	default:
//	    invariant.Unreachable("unknown process kind %d", k)
//	}
func Unreachable(format string, args ...any) {
	fail("UNREACHABLE", format, args...)
}

// fail panics with a formatted message including the violating call site.
func fail(kind, format string, args ...any) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]any{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
