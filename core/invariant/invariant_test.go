package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/opal-lang/join/core/invariant"
)

// expectPanic runs fn and returns the recovered panic message.
func expectPanic(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg = fmt.Sprintf("%v", r)
	}()
	fn()
	return ""
}

func TestPassingAssertionsDoNotPanic(t *testing.T) {
	invariant.Precondition(true, "ok")
	invariant.Postcondition(len("chain") > 0, "ok")
	invariant.Invariant(2 > 1, "ok")
	invariant.InRange(0, 0, 5, "lanes")
	invariant.InRange(5, 0, 5, "lanes")
}

func TestViolationMessages(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		kind string
		text string
	}{
		{
			name: "precondition",
			fn:   func() { invariant.Precondition(false, "chains must not be empty") },
			kind: "PRECONDITION VIOLATION",
			text: "chains must not be empty",
		},
		{
			name: "postcondition",
			fn:   func() { invariant.Postcondition(false, "chain %d must start with Initial", 2) },
			kind: "POSTCONDITION VIOLATION",
			text: "chain 2 must start with Initial",
		},
		{
			name: "invariant",
			fn:   func() { invariant.Invariant(false, "cursor must advance") },
			kind: "INVARIANT VIOLATION",
			text: "cursor must advance",
		},
		{
			name: "range",
			fn:   func() { invariant.InRange(7, 2, 5, "lanes") },
			kind: "PRECONDITION VIOLATION",
			text: "lanes must be in range [2, 5], got 7",
		},
		{
			name: "unreachable",
			fn:   func() { invariant.Unreachable("unknown kind %d", 9) },
			kind: "UNREACHABLE VIOLATION",
			text: "unknown kind 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := expectPanic(t, tt.fn)
			if !strings.Contains(msg, tt.kind) {
				t.Errorf("expected %q in %q", tt.kind, msg)
			}
			if !strings.Contains(msg, tt.text) {
				t.Errorf("expected %q in %q", tt.text, msg)
			}
			if !strings.Contains(msg, "invariant_test.go") {
				t.Errorf("expected call site in %q", msg)
			}
		})
	}
}
