package chainfmt

import (
	"fmt"
	"io"

	"github.com/opal-lang/join/core/expr"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// FormatTree renders chains as a tree. A single chain is listed directly;
// several are grouped under the join they expand to.
//
//	join (parallel, 2 chains):
//	├─ chain 1
//	│  ├─ a
//	│  └─ ~|> f  Map, stage 1
//	└─ chain 2
//	   └─ b
func FormatTree(w io.Writer, chains []expr.Chain, mode string, useColor bool) {
	switch len(chains) {
	case 0:
		_, _ = fmt.Fprintf(w, "(no chains)\n")
	case 1:
		_, _ = fmt.Fprintf(w, "chain:\n")
		renderActions(w, chains[0], "", useColor)
	default:
		_, _ = fmt.Fprintf(w, "join (%s, %d chains):\n", mode, len(chains))
		for i, c := range chains {
			last := i == len(chains)-1
			branch, indent := "├─ ", "│  "
			if last {
				branch, indent = "└─ ", "   "
			}
			_, _ = fmt.Fprintf(w, "%s%s\n", branch, Colorize(fmt.Sprintf("chain %d", i+1), ColorCyan, useColor))
			renderActions(w, c, indent, useColor)
		}
	}
}

func renderActions(w io.Writer, c expr.Chain, indent string, useColor bool) {
	stage := 0
	for i, a := range c.Actions {
		prefix := indent + "├─ "
		if i == len(c.Actions)-1 {
			prefix = indent + "└─ "
		}
		if a.IsDeferred() {
			stage++
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", prefix, formatAction(a, stage, useColor))
	}
}

func formatAction(a expr.ActionExpr, stage int, useColor bool) string {
	leaf := a.ExtractExpr().Text
	if a.Kind == expr.ActionInitial {
		return leaf
	}

	marker := a.Marker()
	note := a.Name()
	if a.IsDeferred() {
		marker = "~" + marker
		note = fmt.Sprintf("%s, stage %d", note, stage)
	}
	return fmt.Sprintf("%s %s  %s", Colorize(marker, ColorYellow, useColor), leaf, Colorize(note, ColorGray, useColor))
}
