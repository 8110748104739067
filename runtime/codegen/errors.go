package codegen

import (
	"fmt"
	"strings"
)

// GeneratorError provides error reporting with source context
type GeneratorError struct {
	Message    string
	ErrorType  string // "validation", "format"
	Chain      int    // 1-based chain index, 0 when not chain specific
	SourceLine int
	SourceText string
}

func (e *GeneratorError) Error() string {
	var builder strings.Builder

	if e.ErrorType != "" {
		builder.WriteString(fmt.Sprintf("[%s] ", e.ErrorType))
	}

	switch {
	case e.Chain > 0 && e.SourceLine > 0:
		builder.WriteString(fmt.Sprintf("error in chain %d at line %d: %s", e.Chain, e.SourceLine, e.Message))
	case e.Chain > 0:
		builder.WriteString(fmt.Sprintf("error in chain %d: %s", e.Chain, e.Message))
	default:
		builder.WriteString(fmt.Sprintf("generator error: %s", e.Message))
	}
	if e.SourceText != "" {
		builder.WriteString("\nSource: " + e.SourceText)
	}

	return builder.String()
}

// NewValidationError reports input the generator cannot turn into code.
func NewValidationError(message string, chain, sourceLine int) *GeneratorError {
	return &GeneratorError{
		Message:    message,
		ErrorType:  "validation",
		Chain:      chain,
		SourceLine: sourceLine,
	}
}

// NewFormatError reports generated source that does not parse.
func NewFormatError(message, source string) *GeneratorError {
	return &GeneratorError{
		Message:    message,
		ErrorType:  "format",
		SourceText: source,
	}
}
