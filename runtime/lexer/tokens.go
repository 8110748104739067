package lexer

import "fmt"

// TokenType classifies a token tree node.
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota

	// Leaves
	IDENT   // identifiers: fetch, v, result
	KEYWORD // Go keywords: func, return, map, chan
	LITERAL // 42, 3.14, 'x', "str", `raw`
	PUNCT   // a single operator or delimiter: | > = - ? ! ~ & , . :

	// Balanced delimiters collapse into one node
	GROUP // ( ... ), [ ... ], { ... }
)

var tokenNames = [...]string{
	EOF:     "EOF",
	IDENT:   "IDENT",
	KEYWORD: "KEYWORD",
	LITERAL: "LITERAL",
	PUNCT:   "PUNCT",
	GROUP:   "GROUP",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Delimiter identifies the bracket pair of a GROUP token.
type Delimiter rune

const (
	NoDelim Delimiter = 0
	Paren   Delimiter = '('
	Bracket Delimiter = '['
	Brace   Delimiter = '{'
)

// Close returns the closing rune for the delimiter.
func (d Delimiter) Close() rune {
	switch d {
	case Paren:
		return ')'
	case Bracket:
		return ']'
	case Brace:
		return '}'
	default:
		return 0
	}
}

// Position is a location in the source. Line and Column are 1-based, Offset is a
// 0-based byte offset.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one node of the token tree.
type Token struct {
	Type TokenType
	Text string   // Exact source text; for GROUP this includes both delimiters
	Pos  Position // Start of the token
	End  int      // Byte offset one past the last byte

	// Joint is set on a PUNCT token that is immediately followed, with no
	// whitespace, by another PUNCT token. Multi-character markers such as
	// "|>" are recognised only across joint runs.
	Joint bool

	// GROUP only
	Delim    Delimiter
	Children []Token
}

// Is reports whether t is a PUNCT token with the given text.
func (t Token) Is(text string) bool {
	return t.Type == PUNCT && t.Text == text
}

// IsGroup reports whether t is a GROUP with the given delimiter.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Type == GROUP && t.Delim == d
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case GROUP:
		return fmt.Sprintf("GROUP%c…%c@%s", t.Delim, t.Delim.Close(), t.Pos)
	default:
		return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Pos)
	}
}
