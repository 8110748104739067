package main

import (
	stderrors "errors"
	"fmt"
	"io"

	jerrors "github.com/opal-lang/join/internal/errors"
	"github.com/opal-lang/join/runtime/parser"
)

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var joinErr *jerrors.JoinError
	if stderrors.As(err, &joinErr) {
		formatJoinError(w, joinErr, useColor)
		return
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
}

// formatJoinError prints the message, then the cause on its own lines so
// parse snippets keep their layout.
func formatJoinError(w io.Writer, err *jerrors.JoinError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Cause != nil {
		var pe *parser.ParseError
		if stderrors.As(err.Cause, &pe) {
			_, _ = fmt.Fprintf(w, "\n%s\n", pe.Error())
		} else {
			_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  ", ColorGray, useColor), err.Cause.Error())
		}
	}

	if hint := hintFor(err.Type); hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), hint)
	}
}

func hintFor(errorType string) string {
	switch errorType {
	case jerrors.ErrStale:
		return "run `joingen gen` to regenerate"
	case jerrors.ErrConfigInvalid:
		return "check joingen.yaml against the documented keys: mode, result_import, join_import, max_lanes, suffix"
	default:
		return ""
	}
}
