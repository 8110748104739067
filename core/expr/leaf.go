// Package expr defines the chain expression model: the closed set of action
// nodes a join macro body is built from, and the capabilities every node
// supports for reading and rewriting the Go expressions it wraps.
//
// A chain is an ordered sequence of ActionExpr values rooted at one Initial
// node:
//
//	fetch(id) => validate ~<= fallback
//
// becomes
//
//	[Initial(fetch(id)), Process(Instant(AndThen(validate))), Default(Deferred(OrElse(fallback)))]
//
// Nodes are immutable values. Rewriting a node's leaves builds a new node with
// the same variant and scheduling tag.
package expr

import (
	"fmt"
	"go/parser"
	"strings"
)

// Span locates a leaf in the source it was parsed from. The zero Span means
// the leaf was synthesised (e.g. by a rewrite pass) rather than parsed.
type Span struct {
	Start  int `json:"start"` // 0-based byte offset
	End    int `json:"end"`   // exclusive
	Line   int `json:"line"`  // 1-based
	Column int `json:"column"`
}

// IsZero reports whether the span carries no position.
func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	if s.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Leaf is an opaque Go expression held by exactly one chain node. The chain
// model never looks inside a leaf; it only holds, extracts, or substitutes it.
type Leaf struct {
	Text string
	Span Span
}

// LeafError reports a candidate leaf that is not a valid Go expression.
type LeafError struct {
	Text string
	Err  error
}

func (e *LeafError) Error() string {
	if strings.TrimSpace(e.Text) == "" {
		return "expected expression, found nothing"
	}
	return fmt.Sprintf("invalid expression %q: %v", e.Text, e.Err)
}

func (e *LeafError) Unwrap() error {
	return e.Err
}

// ParseLeaf validates text as a Go expression and wraps it as a Leaf. The
// expression is checked structurally only; names and types are not resolved.
func ParseLeaf(text string) (Leaf, error) {
	if strings.TrimSpace(text) == "" {
		return Leaf{}, &LeafError{Text: text}
	}
	if _, err := parser.ParseExpr(text); err != nil {
		return Leaf{}, &LeafError{Text: text, Err: err}
	}
	return Leaf{Text: text}, nil
}

// MustParseLeaf is ParseLeaf for trusted input; it panics on error.
func MustParseLeaf(text string) Leaf {
	l, err := ParseLeaf(text)
	if err != nil {
		panic(err)
	}
	return l
}

// At returns a copy of the leaf positioned at span.
func (l Leaf) At(span Span) Leaf {
	l.Span = span
	return l
}

// Equal compares leaves by expression text, ignoring position.
func (l Leaf) Equal(other Leaf) bool {
	return l.Text == other.Text
}

func (l Leaf) String() string {
	return l.Text
}
