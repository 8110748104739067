package main

import (
	"io"
	"os"

	"github.com/opal-lang/join/core/chainfmt"
)

// Re-export color constants from chainfmt for convenience
const (
	ColorReset  = chainfmt.ColorReset
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = chainfmt.ColorYellow
	ColorGray   = chainfmt.ColorGray
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	return chainfmt.Colorize(text, color, useColor)
}

// ShouldUseColor determines if color output should be used on w.
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(noColorFlag bool, w io.Writer) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
