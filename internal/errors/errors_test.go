package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinError(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := NewInputError("a.gojoin", cause)

	assert.Equal(t, "INPUT_READ_ERROR: reading a.gojoin (caused by: permission denied)", err.Error())
	assert.ErrorIs(t, err, cause)

	path, ok := err.GetContext("path")
	assert.True(t, ok)
	assert.Equal(t, "a.gojoin", path)

	plain := New(ErrUsage, "no input")
	assert.Equal(t, "USAGE_ERROR: no input", plain.Error())
}

func TestIsErrorType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewParseError("x.gojoin", stderrors.New("bad marker")))

	assert.True(t, IsErrorType(err, ErrParse))
	assert.False(t, IsErrorType(err, ErrInputRead))
	assert.False(t, IsErrorType(stderrors.New("plain"), ErrParse))
}

func TestExitCode(t *testing.T) {
	cause := stderrors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", cause, ExitInvalidArgs},
		{"usage", New(ErrUsage, "x"), ExitInvalidArgs},
		{"config", NewConfigError("joingen.yaml", cause), ExitInvalidArgs},
		{"input", NewInputError("a", cause), ExitIO},
		{"missing file", New(ErrFileNotFound, "a"), ExitIO},
		{"output", NewOutputError("a", cause), ExitIO},
		{"parse", NewParseError("a", cause), ExitParse},
		{"generation", NewGenerationError("a", cause), ExitGeneration},
		{"stale", New(ErrStale, "a_join.go is out of date"), ExitGeneration},
		{"wrapped", fmt.Errorf("ctx: %w", NewParseError("a", cause)), ExitParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
