package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opal-lang/join/runtime/lexer"
)

// ErrorType represents different categories of parsing errors
type ErrorType int

const (
	ErrorClassification   ErrorType = iota // No grammar rule matches where an action or terminator was expected
	ErrorMalformedLeaf                     // A leaf region is not a valid Go expression
	ErrorUnboundedNesting                  // A group or join never finds its terminator
	ErrorSyntax                            // Lexical failure (bad literal, stray closing delimiter)
)

func (e ErrorType) String() string {
	switch e {
	case ErrorClassification:
		return "classification failure"
	case ErrorMalformedLeaf:
		return "malformed leaf expression"
	case ErrorUnboundedNesting:
		return "unbounded nesting"
	case ErrorSyntax:
		return "syntax error"
	default:
		return "error"
	}
}

// ParseError represents a parsing error with location and context information
type ParseError struct {
	Type        ErrorType
	Message     string
	Pos         lexer.Position
	Input       string   // Source the position refers to
	Filename    string   // Optional, used in the location line
	Found       string   // Offending text, if any
	Suggestions []string // Possible fixes
}

// Error returns the formatted error message with line/column and code snippet
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Type, e.Message)
	if snippet := e.snippet(); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "\n   = help: did you mean %s?", quoteAll(e.Suggestions))
	}
	return b.String()
}

// Compact renders a single-location diagnostic in the gcc style used by
// go vet and friends: "file:line:col: message" followed by the source line.
func (e *ParseError) Compact() string {
	var b strings.Builder
	if e.Filename != "" {
		fmt.Fprintf(&b, "%s:", e.Filename)
	}
	fmt.Fprintf(&b, "%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if line, ok := e.line(); ok {
		fmt.Fprintf(&b, "\n%2d | %s", e.Pos.Line, line)
		fmt.Fprintf(&b, "\n   | %s^", strings.Repeat(" ", max(e.Pos.Column-1, 0)))
	}
	return b.String()
}

func (e *ParseError) line() (string, bool) {
	if e.Input == "" || e.Pos.Line == 0 {
		return "", false
	}
	lines := strings.Split(e.Input, "\n")
	if e.Pos.Line > len(lines) {
		return "", false
	}
	return lines[e.Pos.Line-1], true
}

// snippet creates a code snippet showing the error location
func (e *ParseError) snippet() string {
	lineContent, ok := e.line()
	if !ok {
		return ""
	}

	// Create the snippet in Rust/Clang style
	var snippet strings.Builder
	if e.Filename != "" {
		snippet.WriteString(fmt.Sprintf("  --> %s:%d:%d\n", e.Filename, e.Pos.Line, e.Pos.Column))
	} else {
		snippet.WriteString(fmt.Sprintf("  --> %d:%d\n", e.Pos.Line, e.Pos.Column))
	}
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", e.Pos.Line, lineContent))
	snippet.WriteString("   | ")
	if e.Pos.Column > 0 && e.Pos.Column <= len(lineContent)+1 {
		width := 1
		if e.Found != "" && !strings.Contains(e.Found, "\n") {
			width = len(e.Found)
		}
		snippet.WriteString(strings.Repeat(" ", e.Pos.Column-1) + strings.Repeat("^", width))
	}

	return snippet.String()
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("`%s`", s)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

// IsErrorType reports whether err is a *ParseError of the given type.
func IsErrorType(err error, typ ErrorType) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Type == typ
}
