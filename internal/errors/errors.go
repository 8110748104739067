package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for different categories of failures
const (
	// Input/File errors
	ErrInputRead    = "INPUT_READ_ERROR"
	ErrFileNotFound = "FILE_NOT_FOUND"
	ErrOutputWrite  = "OUTPUT_WRITE_ERROR"

	// Configuration errors
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrUsage         = "USAGE_ERROR"

	// Expansion errors
	ErrParse          = "PARSE_ERROR"
	ErrCodeGeneration = "CODE_GENERATION_ERROR"
	ErrStale          = "STALE_OUTPUT"
)

// Process exit codes, one per failure category.
const (
	ExitOK          = 0
	ExitInvalidArgs = 1
	ExitIO          = 2
	ExitParse       = 3
	ExitGeneration  = 4
)

// JoinError represents a structured error with type and context
type JoinError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *JoinError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *JoinError) Unwrap() error {
	return e.Cause
}

// New creates a new JoinError
func New(errorType, message string) *JoinError {
	return &JoinError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new JoinError wrapping an existing error
func Wrap(errorType, message string, cause error) *JoinError {
	return &JoinError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *JoinError) WithContext(key string, value interface{}) *JoinError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *JoinError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// ExitCode maps the error type to the process exit code.
func (e *JoinError) ExitCode() int {
	switch e.Type {
	case ErrInputRead, ErrFileNotFound, ErrOutputWrite:
		return ExitIO
	case ErrParse:
		return ExitParse
	case ErrCodeGeneration, ErrStale:
		return ExitGeneration
	default:
		return ExitInvalidArgs
	}
}

// Helper functions for common error scenarios

// NewInputError creates an input-related error
func NewInputError(path string, cause error) *JoinError {
	return Wrap(ErrInputRead, fmt.Sprintf("reading %s", path), cause).
		WithContext("path", path)
}

// NewOutputError creates an output-related error
func NewOutputError(path string, cause error) *JoinError {
	return Wrap(ErrOutputWrite, fmt.Sprintf("writing %s", path), cause).
		WithContext("path", path)
}

// NewParseError creates a parsing error
func NewParseError(path string, cause error) *JoinError {
	return Wrap(ErrParse, fmt.Sprintf("expanding %s", path), cause).
		WithContext("path", path)
}

// NewGenerationError creates a code generation error
func NewGenerationError(path string, cause error) *JoinError {
	return Wrap(ErrCodeGeneration, fmt.Sprintf("generating %s", path), cause).
		WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(path string, cause error) *JoinError {
	return Wrap(ErrConfigInvalid, fmt.Sprintf("loading config %s", path), cause).
		WithContext("path", path)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var joinErr *JoinError
	if stderrors.As(err, &joinErr) {
		return joinErr.Type == errorType
	}
	return false
}

// ExitCode returns the exit code for any error: JoinError types map to their
// category, nil is success and anything else is treated as bad usage.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var joinErr *JoinError
	if stderrors.As(err, &joinErr) {
		return joinErr.ExitCode()
	}
	return ExitInvalidArgs
}
