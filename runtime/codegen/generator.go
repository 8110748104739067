package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"log/slog"

	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/core/invariant"
)

// MaxLanes is the largest join the runtime provides (All5/Seq5).
const MaxLanes = 5

// Mode selects how joined chains are run.
type Mode int

const (
	ModeParallel   Mode = iota // join.AllN: one goroutine per chain
	ModeSequential             // join.SeqN: stage by stage on the caller's goroutine
)

func (m Mode) String() string {
	switch m {
	case ModeParallel:
		return "parallel"
	case ModeSequential:
		return "sequential"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the configuration spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "parallel", "":
		return ModeParallel, nil
	case "sequential":
		return ModeSequential, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want parallel or sequential)", s)
	}
}

// Option configures a Generator.
type Option func(*Generator)

// WithResultQualifier sets the package name used for eager calls.
func WithResultQualifier(name string) Option {
	return func(g *Generator) {
		g.resultPkg = name
	}
}

// WithJoinQualifier sets the package name used for pipes and joins.
func WithJoinQualifier(name string) Option {
	return func(g *Generator) {
		g.joinPkg = name
	}
}

// WithMode selects parallel or sequential joins.
func WithMode(mode Mode) Option {
	return func(g *Generator) {
		g.mode = mode
	}
}

// WithMaxLanes lowers the number of chains a join may hold.
func WithMaxLanes(n int) Option {
	return func(g *Generator) {
		if n >= 1 && n <= MaxLanes {
			g.maxLanes = n
		}
	}
}

// WithLogger sends generation traces to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator emits one Go expression per macro body.
type Generator struct {
	resultPkg string
	joinPkg   string
	mode      Mode
	maxLanes  int
	logger    *slog.Logger
}

// New creates a generator using the "result" and "join" qualifiers.
func New(opts ...Option) *Generator {
	g := &Generator{
		resultPkg: "result",
		joinPkg:   "join",
		mode:      ModeParallel,
		maxLanes:  MaxLanes,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mode reports the join mode in effect.
func (g *Generator) Mode() Mode {
	return g.mode
}

// Generate emits the expression for chains as gofmt'd source. A single chain
// is emitted eagerly; two or more become a join.
func (g *Generator) Generate(chains []expr.Chain) (string, error) {
	if len(chains) == 0 {
		return "", NewValidationError("nothing to generate: no chains", 0, 0)
	}
	for i, c := range chains {
		if err := c.Validate(); err != nil {
			return "", NewValidationError(err.Error(), i+1, c.Span.Line)
		}
	}

	var code string
	if len(chains) == 1 {
		code = g.emit(eagerOps{result: g.resultPkg}, chains[0]).String()
	} else {
		if len(chains) > g.maxLanes {
			return "", NewValidationError(
				fmt.Sprintf("join of %d chains exceeds the limit of %d", len(chains), g.maxLanes),
				g.maxLanes+1, chains[g.maxLanes].Span.Line)
		}
		ops := laneOps{join: g.joinPkg}
		lanes := make([]TempResult, len(chains))
		for i, c := range chains {
			lanes[i] = g.emit(ops, c)
		}
		code = Call(g.joinPkg, g.joinFunc(len(chains)), JoinResults(lanes, ", "))
	}

	out, err := formatExpr(code)
	if err != nil {
		return "", err
	}
	g.logger.Debug("generated expression", "chains", len(chains), "mode", g.mode.String(), "bytes", len(out))
	return out, nil
}

// GenerateChain emits a single chain with ops, exposing the walk to callers
// that supply their own GenOps.
func (g *Generator) GenerateChain(ops GenOps, c expr.Chain) TempResult {
	return g.emit(ops, c)
}

// emit walks a chain left to right. Every deferred action is preceded by the
// barrier that opens its stage; nothing is reordered.
func (g *Generator) emit(ops GenOps, c expr.Chain) TempResult {
	invariant.Precondition(c.Validate() == nil, "emit called with malformed chain %v", c)

	acc := ops.Seed(c.Initial().Expr.Text)
	for stage, actions := range c.Stages() {
		if stage > 0 {
			acc = ops.Sync(acc, stage)
		}
		for _, a := range actions {
			acc = ops.Apply(a.Name(), acc, a.ExtractExpr().Text)
		}
	}
	return acc
}

func (g *Generator) joinFunc(n int) string {
	switch g.mode {
	case ModeSequential:
		return fmt.Sprintf("Seq%d", n)
	case ModeParallel:
		return fmt.Sprintf("All%d", n)
	default:
		invariant.Unreachable("unknown mode %d", g.mode)
		return ""
	}
}

// formatExpr parses code as a Go expression and prints it in gofmt style.
func formatExpr(code string) (string, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseExprFrom(fset, "", code, 0)
	if err != nil {
		return "", NewFormatError(fmt.Sprintf("generated code does not parse: %v", err), code)
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return "", NewFormatError(fmt.Sprintf("formatting generated code: %v", err), code)
	}
	return buf.String(), nil
}
