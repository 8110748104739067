package parser

import (
	"log/slog"
	"time"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Parse counts only
	TelemetryTiming                      // Parse counts + timing per phase
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Builder state transitions
	DebugDetailed                   // Every classification
)

// DefaultMaxDepth bounds &> recursion.
const DefaultMaxDepth = 32

// ParserConfig holds parser configuration
type ParserConfig struct {
	telemetry TelemetryMode
	debug     DebugLevel
	logger    *slog.Logger
	maxDepth  int
	filename  string
}

func defaultConfig() *ParserConfig {
	return &ParserConfig{maxDepth: DefaultMaxDepth}
}

// WithTelemetryBasic enables basic telemetry (parse counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per phase)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths enables debug path tracing (development only)
func WithDebugPaths() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugPaths
	}
}

// WithDebugDetailed enables detailed debug tracing (development only)
func WithDebugDetailed() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugDetailed
	}
}

// WithLogger sends builder traces to logger at debug level.
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = logger
	}
}

// WithMaxDepth limits how deeply &> groups may nest.
func WithMaxDepth(depth int) ParserOpt {
	return func(c *ParserConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithFilename names the source in error messages.
func WithFilename(name string) ParserOpt {
	return func(c *ParserConfig) {
		c.filename = name
	}
}

// ParseTelemetry holds parser performance metrics (production-safe)
type ParseTelemetry struct {
	LexTime       time.Duration // Time spent lexing
	ParseTime     time.Duration // Time spent building chains
	TotalTime     time.Duration // Total parse time
	TokenCount    int           // Number of top-level tokens
	ChainCount    int           // Number of chains built
	ActionCount   int           // Actions across all chains, seeds included
	DeferredCount int           // Deferred actions across all chains
	MaxDepth      int           // Deepest &> nesting reached
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_chain", "classify", "join", ...
	TokenPos  int    // Cursor index within the current token region
	Depth     int    // &> nesting depth
	Context   string // Additional context
}
