package expand

import (
	"io"
	"log/slog"

	"github.com/opal-lang/join/runtime/codegen"
)

// Default import paths of the generated code's runtime packages.
const (
	DefaultResultImport = "github.com/opal-lang/join/result"
	DefaultJoinImport   = "github.com/opal-lang/join"
)

// Macro names recognised in Go source.
const (
	MacroJoin    = "join"     // join!(…): parallel unless configured otherwise
	MacroJoinSeq = "join_seq" // join_seq!(…): always sequential
)

// Option configures expansion.
type Option func(*config)

type config struct {
	resultImport string
	joinImport   string
	mode         codegen.Mode
	maxLanes     int
	filename     string
	logger       *slog.Logger
}

func defaultConfig() *config {
	return &config{
		resultImport: DefaultResultImport,
		joinImport:   DefaultJoinImport,
		mode:         codegen.ModeParallel,
		maxLanes:     codegen.MaxLanes,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithResultImport sets the import path of the result package.
func WithResultImport(path string) Option {
	return func(c *config) {
		c.resultImport = path
	}
}

// WithJoinImport sets the import path of the join runtime.
func WithJoinImport(path string) Option {
	return func(c *config) {
		c.joinImport = path
	}
}

// WithMode selects the mode used by join!. join_seq! is always sequential.
func WithMode(mode codegen.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithMaxLanes limits how many chains one join may hold.
func WithMaxLanes(n int) Option {
	return func(c *config) {
		c.maxLanes = n
	}
}

// WithFilename names the source in error messages.
func WithFilename(name string) Option {
	return func(c *config) {
		c.filename = name
	}
}

// WithLogger enables debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func (c *config) generator(mode codegen.Mode) *codegen.Generator {
	return codegen.New(
		codegen.WithResultQualifier(codegen.PackageName(c.resultImport)),
		codegen.WithJoinQualifier(codegen.PackageName(c.joinImport)),
		codegen.WithMode(mode),
		codegen.WithMaxLanes(c.maxLanes),
		codegen.WithLogger(c.logger),
	)
}
