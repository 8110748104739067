package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opal-lang/join/core/chainfmt"
	jerrors "github.com/opal-lang/join/internal/errors"
	"github.com/opal-lang/join/runtime/codegen"
	"github.com/opal-lang/join/runtime/expand"
	"github.com/opal-lang/join/runtime/parser"
)

func (a *app) expandCmd() *cobra.Command {
	var seq bool

	cmd := &cobra.Command{
		Use:   "expand <macro-body>",
		Short: "Print the Go expression for a macro body",
		Long: `Expands a single macro body, the text between the parentheses of join!(…).
Pass "-" to read the body from stdin.`,
		Example: `  joingen expand 'load(path) |>? decode ~<= fallback'
  joingen expand --seq 'a => f, b'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.body(args)
			if err != nil {
				return err
			}
			mode := a.cfg.JoinMode()
			if seq {
				mode = codegen.ModeSequential
			}

			e, err := expand.Expression(body, a.expandOptions(mode)...)
			if err != nil {
				return classify("<body>", err)
			}
			_, _ = fmt.Fprintln(a.stdout, e.Code)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seq, "seq", false, "Join chains sequentially, as join_seq! does")
	return cmd
}

func (a *app) explainCmd() *cobra.Command {
	var seq bool

	cmd := &cobra.Command{
		Use:   "explain <macro-body>",
		Short: "Show how a macro body is split into chains",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.body(args)
			if err != nil {
				return err
			}
			mode := a.cfg.JoinMode()
			if seq {
				mode = codegen.ModeSequential
			}

			opts := []parser.ParserOpt{parser.WithTelemetryBasic(), parser.WithLogger(a.logger)}
			tree, err := parser.Parse(body, opts...)
			if err != nil {
				return classify("<body>", err)
			}
			fingerprint, err := chainfmt.Fingerprint(tree.Chains, mode.String())
			if err != nil {
				return jerrors.NewGenerationError("<body>", err)
			}

			useColor := ShouldUseColor(a.noColor, a.stdout)
			chainfmt.FormatTree(a.stdout, tree.Chains, mode.String(), useColor)
			t := tree.Telemetry
			_, _ = fmt.Fprintf(a.stdout, "%s %d actions, %d deferred, %d tokens\n",
				Colorize("stats:", ColorGray, useColor), t.ActionCount, t.DeferredCount, t.TokenCount)
			_, _ = fmt.Fprintf(a.stdout, "%s %s\n", Colorize("fingerprint:", ColorGray, useColor), fingerprint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seq, "seq", false, "Explain the body as join_seq! would see it")
	return cmd
}

// body joins the arguments into one macro body, or reads stdin for "-".
func (a *app) body(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, jerrors.NewInputError("stdin", err)
		}
		return data, nil
	}
	body := strings.Join(args, " ")
	if strings.TrimSpace(body) == "" {
		return nil, jerrors.New(jerrors.ErrUsage, "empty macro body")
	}
	return []byte(body), nil
}

// classify wraps an expansion failure in the error type of its stage.
func classify(path string, err error) error {
	var pe *parser.ParseError
	if stderrors.As(err, &pe) {
		return jerrors.NewParseError(path, err)
	}
	return jerrors.NewGenerationError(path, err)
}
