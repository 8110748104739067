// Package expand rewrites join!(…) and join_seq!(…) macro calls in Go
// source into plain Go expressions over the result and join packages.
package expand

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"sort"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/opal-lang/join/core/chainfmt"
	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/runtime/codegen"
	"github.com/opal-lang/join/runtime/lexer"
	jparser "github.com/opal-lang/join/runtime/parser"
)

// Expansion is one expanded macro call.
type Expansion struct {
	Macro  string         // MacroJoin or MacroJoinSeq
	Pos    lexer.Position // Start of the macro name
	Start  int            // Byte range replaced in the source
	End    int
	Chains []expr.Chain
	Mode   codegen.Mode
	Code   string // Generated Go expression
}

// Joined reports whether the expansion is a join rather than a single chain.
func (e Expansion) Joined() bool {
	return len(e.Chains) > 1
}

// Canonical returns the canonical form used for fingerprinting.
func (e Expansion) Canonical() (*chainfmt.Canonical, error) {
	return chainfmt.Canonicalize(e.Chains, e.Mode.String())
}

// Result is a rewritten file.
type Result struct {
	Source     []byte // gofmt'd output
	Expansions []Expansion
}

// Fingerprint digests every expansion in source order. It changes whenever
// the meaning of any macro in the file changes.
func (r *Result) Fingerprint() (string, error) {
	items := make([]*chainfmt.Canonical, len(r.Expansions))
	for i, e := range r.Expansions {
		c, err := e.Canonical()
		if err != nil {
			return "", err
		}
		items[i] = c
	}
	return chainfmt.Digest(items...)
}

// Expression expands a bare macro body, as passed to join!(…).
func Expression(body []byte, opts ...Option) (*Expansion, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	tree, err := jparser.Parse(body, cfg.parserOpts()...)
	if err != nil {
		return nil, err
	}
	code, err := cfg.generator(cfg.mode).Generate(tree.Chains)
	if err != nil {
		return nil, err
	}
	return &Expansion{
		Macro:  MacroJoin,
		Pos:    lexer.Position{Line: 1, Column: 1},
		End:    len(body),
		Chains: tree.Chains,
		Mode:   cfg.mode,
		Code:   code,
	}, nil
}

// File expands every macro call in a Go source file, adds the imports the
// generated code needs and formats the result. Macro bodies are not searched
// for further macro calls.
func File(src []byte, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	tokens, err := lexer.Tokenize(src, lexer.WithLogger(cfg.logger))
	if err != nil {
		return nil, jparser.FromLexError(err, src, cfg.filename)
	}

	calls := findMacros(tokens)
	cfg.logger.Debug("found macro calls", "file", cfg.filename, "count", len(calls))

	expansions := make([]Expansion, 0, len(calls))
	for _, call := range calls {
		e, err := cfg.expandCall(src, call)
		if err != nil {
			return nil, err
		}
		expansions = append(expansions, e)
	}

	out, err := cfg.rewrite(src, expansions)
	if err != nil {
		return nil, err
	}
	return &Result{Source: out, Expansions: expansions}, nil
}

// macroCall is a name!(…) occurrence in the token tree.
type macroCall struct {
	name lexer.Token
	body lexer.Token
}

// findMacros walks the token tree for IDENT "!" GROUP( sequences where the
// bang touches the name. The bodies of matched calls are not descended into.
func findMacros(tokens []lexer.Token) []macroCall {
	var calls []macroCall
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type == lexer.IDENT && (t.Text == MacroJoin || t.Text == MacroJoinSeq) && i+2 < len(tokens) {
			bang, body := tokens[i+1], tokens[i+2]
			if bang.Is("!") && bang.Pos.Offset == t.End && body.IsGroup(lexer.Paren) {
				calls = append(calls, macroCall{name: t, body: body})
				i += 2
				continue
			}
		}
		if t.Type == lexer.GROUP {
			calls = append(calls, findMacros(t.Children)...)
		}
	}
	return calls
}

func (c *config) expandCall(src []byte, call macroCall) (Expansion, error) {
	mode := c.mode
	if call.name.Text == MacroJoinSeq {
		mode = codegen.ModeSequential
	}

	tree, err := jparser.ParseGroup(src, call.body, c.parserOpts()...)
	if err != nil {
		return Expansion{}, err
	}
	code, err := c.generator(mode).Generate(tree.Chains)
	if err != nil {
		return Expansion{}, fmt.Errorf("%s: %s!: %w", c.location(call.name.Pos), call.name.Text, err)
	}

	c.logger.Debug("expanded macro", "macro", call.name.Text, "at", call.name.Pos.String(),
		"chains", len(tree.Chains), "mode", mode.String())
	return Expansion{
		Macro:  call.name.Text,
		Pos:    call.name.Pos,
		Start:  call.name.Pos.Offset,
		End:    call.body.End,
		Chains: tree.Chains,
		Mode:   mode,
		Code:   code,
	}, nil
}

// rewrite splices generated code over the macro calls, adds imports and
// runs gofmt on the file.
func (c *config) rewrite(src []byte, expansions []Expansion) ([]byte, error) {
	sorted := make([]Expansion, len(expansions))
	copy(sorted, expansions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var buf bytes.Buffer
	last := 0
	needResult, needJoin := false, false
	for _, e := range sorted {
		buf.Write(src[last:e.Start])
		buf.WriteString(e.Code)
		last = e.End
		if e.Joined() {
			needJoin = true
		} else {
			needResult = true
		}
	}
	buf.Write(src[last:])

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, c.filename, buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("expanded source does not parse: %w", err)
	}
	if needResult {
		addImport(fset, file, c.resultImport)
	}
	if needJoin {
		addImport(fset, file, c.joinImport)
	}

	var out bytes.Buffer
	if err := format.Node(&out, fset, file); err != nil {
		return nil, fmt.Errorf("formatting expanded source: %w", err)
	}
	return out.Bytes(), nil
}

// addImport imports path under the name generated code uses for it.
func addImport(fset *token.FileSet, file *ast.File, path string) {
	name := codegen.PackageName(path)
	if name == guessedName(path) {
		astutil.AddImport(fset, file, path)
		return
	}
	astutil.AddNamedImport(fset, file, name, path)
}

// guessedName is the last path element, the name the go tool would use for
// an unnamed import when it matches the package clause.
func guessedName(importPath string) string {
	return path.Base(importPath)
}

func (c *config) parserOpts() []jparser.ParserOpt {
	opts := []jparser.ParserOpt{jparser.WithLogger(c.logger)}
	if c.filename != "" {
		opts = append(opts, jparser.WithFilename(c.filename))
	}
	return opts
}

func (c *config) location(pos lexer.Position) string {
	if c.filename == "" {
		return pos.String()
	}
	return c.filename + ":" + pos.String()
}
