package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opal-lang/join/internal/config"
	jerrors "github.com/opal-lang/join/internal/errors"
	"github.com/opal-lang/join/internal/logging"
	"github.com/opal-lang/join/runtime/codegen"
	"github.com/opal-lang/join/runtime/expand"
)

// version is set with -ldflags "-X main.version=..." at release time.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		FormatError(stderr, err, ShouldUseColor(a.noColor, stderr))
		return jerrors.ExitCode(err)
	}
	return jerrors.ExitOK
}

// app carries the state shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	debug      bool
	noColor    bool

	cfg    config.Config
	logger *slog.Logger
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "joingen",
		Short: "Expand join! chain macros into Go",
		Long: `joingen rewrites join!(…) and join_seq!(…) macro calls in .gojoin files
into plain Go built on the result and join packages.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		a.genCmd(),
		a.expandCmd(),
		a.explainCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	a.logger = logging.New(a.stderr, logging.Level(a.debug))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		path := a.configPath
		if path == "" {
			path = config.DefaultFile
		}
		return jerrors.NewConfigError(path, err)
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "mode", cfg.Mode, "max_lanes", cfg.MaxLanes)
	return nil
}

// expandOptions is the configuration's expansion options in mode.
func (a *app) expandOptions(mode codegen.Mode) []expand.Option {
	return append(a.cfg.ExpandOptions(), expand.WithMode(mode), expand.WithLogger(a.logger))
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of joingen",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = io.WriteString(a.stdout, "joingen version "+version+"\n")
		},
	}
}
