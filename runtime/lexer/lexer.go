package lexer

import (
	"bytes"
	"fmt"
	"go/scanner"
	"go/token"
	"io"
	"log/slog"
	"strings"
)

// Error reports a lexical failure: a bad literal or an unbalanced delimiter.
type Error struct {
	Pos     Position
	Message string

	// Unclosed is set when an opening delimiter reaches end of input without
	// its closing partner. Pos then points at the opening delimiter.
	Unclosed bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger routes debug output to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Lexer turns Go source into a token tree. Scanning is delegated to go/scanner
// so literals, comments and operators follow Go exactly; the lexer
// only folds balanced delimiters into GROUP nodes and marks joint punctuation.
type Lexer struct {
	src    []byte
	logger *slog.Logger
}

// NewLexer creates a lexer. Call Init before Tokens.
func NewLexer(opts ...Option) *Lexer {
	l := &Lexer{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init resets the lexer to scan src.
func (l *Lexer) Init(src []byte) {
	l.src = src
}

// Tokenize is a convenience wrapper around NewLexer/Init/Tokens.
func Tokenize(src []byte, opts ...Option) ([]Token, error) {
	l := NewLexer(opts...)
	l.Init(src)
	return l.Tokens()
}

// Tokens scans the whole input and returns the top-level token trees.
func (l *Lexer) Tokens() ([]Token, error) {
	flat, err := l.scan()
	if err != nil {
		return nil, err
	}

	tree, err := l.fold(flat)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("tokenized", "bytes", len(l.src), "tokens", len(flat), "trees", len(tree))
	return tree, nil
}

// scan produces the flat token list, dropping automatically inserted semicolons.
func (l *Lexer) scan() ([]Token, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(l.src))

	var firstErr *Error
	var s scanner.Scanner
	s.Init(file, l.src, func(pos token.Position, msg string) {
		// Characters Go does not know (?, $, @) are legitimate marker
		// punctuation here; go/scanner still returns them as ILLEGAL tokens.
		if strings.HasPrefix(msg, "illegal character") {
			return
		}
		if firstErr == nil {
			firstErr = &Error{Pos: toPosition(pos), Message: msg}
		}
	}, 0)

	var flat []Token
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}

		p := file.Position(pos)
		start := p.Offset
		var typ TokenType
		var end int

		switch {
		case tok == token.IDENT:
			typ, end = IDENT, start+len(lit)
		case tok.IsKeyword():
			typ, end = KEYWORD, start+len(tok.String())
		case tok.IsLiteral():
			typ, end = LITERAL, l.literalEnd(start, lit)
		case tok == token.ILLEGAL:
			typ, end = PUNCT, start+len(lit)
		default:
			typ, end = PUNCT, start+len(tok.String())
		}

		flat = append(flat, Token{
			Type: typ,
			Text: string(l.src[start:end]),
			Pos:  toPosition(p),
			End:  end,
		})
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return flat, nil
}

// literalEnd returns the end offset of a literal. Raw strings need a source
// search because go/scanner strips carriage returns from their value.
func (l *Lexer) literalEnd(start int, lit string) int {
	if strings.HasPrefix(lit, "`") {
		if i := bytes.IndexByte(l.src[start+1:], '`'); i >= 0 {
			return start + 1 + i + 1
		}
	}
	return start + len(lit)
}

type frame struct {
	open     Token
	children []Token
}

// fold nests tokens between matching delimiters into GROUP tokens.
func (l *Lexer) fold(flat []Token) ([]Token, error) {
	stack := []frame{{}}

	for _, t := range flat {
		switch {
		case t.Is("(") || t.Is("[") || t.Is("{"):
			stack = append(stack, frame{open: t})

		case t.Is(")") || t.Is("]") || t.Is("}"):
			if len(stack) == 1 {
				return nil, &Error{
					Pos:     t.Pos,
					Message: fmt.Sprintf("unexpected %q with no matching opening delimiter", t.Text),
				}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			delim := Delimiter(top.open.Text[0])
			if delim.Close() != rune(t.Text[0]) {
				return nil, &Error{
					Pos: t.Pos,
					Message: fmt.Sprintf("mismatched delimiters: %q opened at %s but %q found",
						top.open.Text, top.open.Pos, t.Text),
				}
			}

			group := Token{
				Type:     GROUP,
				Text:     string(l.src[top.open.Pos.Offset:t.End]),
				Pos:      top.open.Pos,
				End:      t.End,
				Delim:    delim,
				Children: markJoint(top.children),
			}
			parent := &stack[len(stack)-1]
			parent.children = append(parent.children, group)

		default:
			top := &stack[len(stack)-1]
			top.children = append(top.children, t)
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1].open
		return nil, &Error{
			Pos:      open.Pos,
			Message:  fmt.Sprintf("unclosed %q: reached end of input before %q", open.Text, string(Delimiter(open.Text[0]).Close())),
			Unclosed: true,
		}
	}

	return markJoint(stack[0].children), nil
}

// markJoint sets Joint on punctuation directly followed by more punctuation.
func markJoint(tokens []Token) []Token {
	for i := range tokens {
		if i+1 >= len(tokens) {
			break
		}
		cur, next := tokens[i], tokens[i+1]
		if cur.Type == PUNCT && next.Type == PUNCT && next.Pos.Offset == cur.End {
			tokens[i].Joint = true
		}
	}
	return tokens
}

func toPosition(p token.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
