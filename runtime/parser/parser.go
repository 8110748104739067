// Package parser builds expression chains from a join macro body.
//
// The body is tokenized into a token tree, then a chain builder walks it left
// to right, asking a GroupDeterminer what each run of punctuation means:
//
//	load(path) |>? decode => validate ~<= fallback &> (other |> fix), third
//
// yields three chains: the first, the chain joined with &>, and the one after
// the comma. Failures are reported as *ParseError and are never recovered.
package parser

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/runtime/lexer"
)

// ParseTree is the result of a successful parse.
type ParseTree struct {
	Source      []byte          // Original source (for reference)
	Tokens      []lexer.Token   // Top-level token trees
	Chains      []expr.Chain    // Chains in source order, joined siblings flattened
	Telemetry   *ParseTelemetry // Performance metrics (nil if disabled)
	DebugEvents []DebugEvent    // Debug events (nil if disabled)
}

// Joined reports whether the body describes more than one chain.
func (t *ParseTree) Joined() bool {
	return len(t.Chains) > 1
}

// Parse tokenizes and parses a macro body.
func Parse(source []byte, opts ...ParserOpt) (*ParseTree, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	var startLex time.Time
	if config.telemetry >= TelemetryTiming {
		startLex = time.Now()
	}

	var lexOpts []lexer.Option
	if config.logger != nil {
		lexOpts = append(lexOpts, lexer.WithLogger(config.logger))
	}
	tokens, err := lexer.Tokenize(source, lexOpts...)
	if err != nil {
		return nil, FromLexError(err, source, config.filename)
	}

	tree, err := parseTokens(source, tokens, endPosition(source), config)
	if err != nil {
		return nil, err
	}
	if tree.Telemetry != nil && config.telemetry >= TelemetryTiming {
		tree.Telemetry.TotalTime = time.Since(startLex)
		tree.Telemetry.LexTime = tree.Telemetry.TotalTime - tree.Telemetry.ParseTime
	}
	return tree, nil
}

// ParseString is a convenience wrapper for tests
func ParseString(input string, opts ...ParserOpt) (*ParseTree, error) {
	return Parse([]byte(input), opts...)
}

// ParseTokens parses pre-lexed tokens. Token offsets must refer to source.
func ParseTokens(source []byte, tokens []lexer.Token, opts ...ParserOpt) (*ParseTree, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return parseTokens(source, tokens, endPosition(source), config)
}

// ParseGroup parses the children of a GROUP token taken from a larger
// source, such as the parenthesized body of a macro call. End of input is
// reported at the group's closing delimiter.
func ParseGroup(source []byte, group lexer.Token, opts ...ParserOpt) (*ParseTree, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if group.Type != lexer.GROUP {
		return nil, &ParseError{
			Type:     ErrorClassification,
			Message:  "expected a delimited group",
			Pos:      group.Pos,
			Input:    string(source),
			Filename: config.filename,
			Found:    group.Text,
		}
	}
	return parseTokens(source, group.Children, closingPosition(group), config)
}

func parseTokens(source []byte, tokens []lexer.Token, end lexer.Position, config *ParserConfig) (*ParseTree, error) {
	var telemetry *ParseTelemetry
	var startParse time.Time
	if config.telemetry >= TelemetryBasic {
		telemetry = &ParseTelemetry{TokenCount: len(tokens)}
		if config.telemetry >= TelemetryTiming {
			startParse = time.Now()
		}
	}

	logger := config.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := &builder{
		input:      string(source),
		determiner: NewGroupDeterminer(),
		config:     config,
		logger:     logger,
		telemetry:  telemetry,
	}
	if config.debug > DebugOff {
		b.debugEvents = make([]DebugEvent, 0, 32)
	}

	root := cursor{tokens: tokens, end: end}
	chains, err := b.chains(root, 0)
	if err != nil {
		logger.Debug("parse failed", "err", err)
		return nil, err
	}

	if telemetry != nil {
		telemetry.ChainCount = len(chains)
		for _, c := range chains {
			telemetry.ActionCount += len(c.Actions)
			telemetry.DeferredCount += c.DeferredCount()
		}
		if config.telemetry >= TelemetryTiming {
			telemetry.ParseTime = time.Since(startParse)
			telemetry.TotalTime = telemetry.ParseTime
		}
	}

	logger.Debug("parsed join body", "chains", len(chains), "tokens", len(tokens))

	return &ParseTree{
		Source:      source,
		Tokens:      tokens,
		Chains:      chains,
		Telemetry:   telemetry,
		DebugEvents: b.debugEvents,
	}, nil
}

// FromLexError maps lexer failures onto parse errors. An unclosed delimiter
// is unbounded nesting; everything else is a syntax error. Other errors are
// returned unchanged.
func FromLexError(err error, source []byte, filename string) error {
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		return err
	}
	typ := ErrorSyntax
	if lexErr.Unclosed {
		typ = ErrorUnboundedNesting
	}
	return &ParseError{
		Type:     typ,
		Message:  lexErr.Message,
		Pos:      lexErr.Pos,
		Input:    string(source),
		Filename: filename,
	}
}

// endPosition is the position just past the last byte of source.
func endPosition(source []byte) lexer.Position {
	pos := lexer.Position{Offset: len(source), Line: 1, Column: 1}
	for _, c := range source {
		if c == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
