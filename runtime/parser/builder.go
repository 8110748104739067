package parser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/core/invariant"
	"github.com/opal-lang/join/runtime/lexer"
)

// state is the chain builder's position in the grammar.
type state int

const (
	stateExpectInitial state = iota
	stateExpectAction
	stateExpectCommandOrEnd
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateExpectInitial:
		return "ExpectInitial"
	case stateExpectAction:
		return "ExpectAction"
	case stateExpectCommandOrEnd:
		return "ExpectCommandOrEnd"
	case stateDone:
		return "Done"
	case stateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// cursor is an immutable view over one token region. Methods return new
// cursors; nested builders get their own cursor over a group's children.
type cursor struct {
	tokens []lexer.Token
	pos    int
	end    lexer.Position // Where EOF is reported for this region
}

func (c cursor) rest() []lexer.Token {
	return c.tokens[c.pos:]
}

func (c cursor) atEnd() bool {
	return c.pos >= len(c.tokens)
}

func (c cursor) advance(n int) cursor {
	c.pos += n
	return c
}

// position is where the next token starts, or the region end.
func (c cursor) position() lexer.Position {
	if c.atEnd() {
		return c.end
	}
	return c.tokens[c.pos].Pos
}

// builder assembles chains from a token tree. It holds no cursor: every
// method takes one and returns the advanced copy.
type builder struct {
	input       string
	determiner  *GroupDeterminer
	config      *ParserConfig
	logger      *slog.Logger
	telemetry   *ParseTelemetry
	debugEvents []DebugEvent
}

func (b *builder) recordDebugEvent(cur cursor, depth int, event, context string) {
	if b.config.debug == DebugOff {
		return
	}
	b.debugEvents = append(b.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		TokenPos:  cur.pos,
		Depth:     depth,
		Context:   context,
	})
}

// chains builds every chain in the region: comma separated chains in order,
// each immediately followed by the siblings it joins with &>.
func (b *builder) chains(cur cursor, depth int) ([]expr.Chain, error) {
	if depth > b.config.maxDepth {
		return nil, b.errorAt(ErrorUnboundedNesting, cur.position(), "",
			fmt.Sprintf("join nesting exceeds the maximum depth of %d", b.config.maxDepth))
	}
	if b.telemetry != nil && depth > b.telemetry.MaxDepth {
		b.telemetry.MaxDepth = depth
	}

	var out []expr.Chain
	var chain expr.Chain
	emitted := false // chain already appended to out (it has joined siblings)
	st := stateExpectInitial

	finish := func() {
		invariant.Postcondition(chain.Validate() == nil, "builder produced a malformed chain: %v", chain)
		if !emitted {
			out = append(out, chain)
		}
		chain, emitted = expr.Chain{}, false
	}

	for st != stateDone {
		if b.config.debug >= DebugPaths {
			b.recordDebugEvent(cur, depth, "state", st.String())
		}

		switch st {
		case stateExpectInitial:
			leaf, next, err := b.leaf(cur, "initial expression")
			if err != nil {
				return nil, err
			}
			chain = expr.NewChain(leaf)
			cur, st = next, stateExpectAction

		case stateExpectAction:
			g, ok := b.classify(cur, depth)
			if !ok {
				return nil, b.classificationError(cur, "expected an action marker, `,` or end of input")
			}

			switch g.Kind {
			case GroupProcess, GroupDefault:
				action, next, err := b.action(cur.advance(g.Width), g, false)
				if err != nil {
					return nil, err
				}
				chain = chain.Append(action)
				cur = next

			case GroupDeferred:
				next := cur.advance(g.Width)
				inner, ok := b.classify(next, depth)
				if !ok || !inner.IsAction() {
					return nil, b.classificationError(next, "expected an action after deferred marker `~`")
				}
				action, after, err := b.action(next.advance(inner.Width), inner, true)
				if err != nil {
					return nil, err
				}
				chain = chain.Append(action)
				cur = after

			case GroupJoin:
				siblings, next, err := b.join(cur, g, depth)
				if err != nil {
					return nil, err
				}
				if !emitted {
					out = append(out, chain)
					emitted = true
				}
				out = append(out, siblings...)
				cur, st = next, stateExpectCommandOrEnd

			case GroupSeparator:
				finish()
				cur = cur.advance(g.Width)
				st = b.afterSeparator(cur)

			case GroupEnd:
				finish()
				st = stateDone

			default:
				invariant.Unreachable("unhandled group kind %v", g.Kind)
			}

		case stateExpectCommandOrEnd:
			g, ok := b.classify(cur, depth)
			if !ok || !(g.Kind == GroupJoin || g.IsTerminator()) {
				return nil, b.classificationError(cur, "expected `&>`, `,` or end of input after joined chains")
			}

			switch g.Kind {
			case GroupJoin:
				siblings, next, err := b.join(cur, g, depth)
				if err != nil {
					return nil, err
				}
				out = append(out, siblings...)
				cur = next
			case GroupSeparator:
				finish()
				cur = cur.advance(g.Width)
				st = b.afterSeparator(cur)
			case GroupEnd:
				finish()
				st = stateDone
			}

		default:
			invariant.Unreachable("builder in state %s", st)
		}
	}

	return out, nil
}

// afterSeparator allows one trailing comma at the end of a region.
func (b *builder) afterSeparator(cur cursor) state {
	if cur.atEnd() {
		return stateDone
	}
	return stateExpectInitial
}

// classify runs the determiner at the cursor.
func (b *builder) classify(cur cursor, depth int) (Group, bool) {
	g, ok := b.determiner.Determine(cur.rest())
	if b.config.debug >= DebugDetailed {
		b.recordDebugEvent(cur, depth, "classify", fmt.Sprintf("%s ok=%t", g, ok))
	}
	return g, ok
}

// action consumes the leaf after an action marker. cur is positioned after
// the marker.
func (b *builder) action(cur cursor, g Group, deferred bool) (expr.ActionExpr, cursor, error) {
	leaf, next, err := b.leaf(cur, fmt.Sprintf("expression after `%s`", g.Marker))
	if err != nil {
		return expr.ActionExpr{}, cur, err
	}

	switch g.Kind {
	case GroupProcess:
		p := expr.ProcessExpr{Kind: g.Process, Expr: leaf}
		if deferred {
			return expr.NewProcessAction(expr.Defer(p)), next, nil
		}
		return expr.NewProcessAction(expr.Instant(p)), next, nil
	case GroupDefault:
		d := expr.DefaultExpr{Kind: g.Default, Expr: leaf}
		if deferred {
			return expr.NewDefaultAction(expr.Defer(d)), next, nil
		}
		return expr.NewDefaultAction(expr.Instant(d)), next, nil
	default:
		invariant.Unreachable("action called with %s group", g.Kind)
		return expr.ActionExpr{}, cur, nil
	}
}

// join consumes "&>" and the paren group after it, building the group's
// chains with a fresh cursor.
func (b *builder) join(cur cursor, g Group, depth int) ([]expr.Chain, cursor, error) {
	next := cur.advance(g.Width)
	if next.atEnd() || !next.rest()[0].IsGroup(lexer.Paren) {
		return nil, cur, b.errorAt(ErrorUnboundedNesting, next.position(), "",
			"expected a parenthesized group of chains after `&>`")
	}

	group := next.rest()[0]
	inner := cursor{
		tokens: group.Children,
		end:    closingPosition(group),
	}
	b.recordDebugEvent(next, depth, "join", group.Pos.String())

	siblings, err := b.chains(inner, depth+1)
	if err != nil {
		return nil, cur, err
	}
	b.logger.Debug("joined sibling chains", "at", group.Pos.String(), "count", len(siblings), "depth", depth+1)
	return siblings, next.advance(1), nil
}

// leaf collects tokens up to the next marker and validates them as one Go
// expression. Groups are opaque, so markers inside (), [] and {} never stop
// the scan.
func (b *builder) leaf(cur cursor, what string) (expr.Leaf, cursor, error) {
	tokens := cur.rest()
	n := 0
	var runs []int // Start of every unmatched punctuation run in the leaf
	for n < len(tokens) {
		t := tokens[n]
		if t.Type != lexer.PUNCT {
			n++
			continue
		}
		if _, ok := b.determiner.Determine(tokens[n:]); ok {
			break
		}
		runs = append(runs, n)
		n += len(jointRun(tokens[n:]))
	}

	if n == 0 {
		found := "end of input"
		if !cur.atEnd() {
			found = fmt.Sprintf("`%s`", runText(tokens))
		}
		return expr.Leaf{}, cur, b.errorAt(ErrorMalformedLeaf, cur.position(), "",
			fmt.Sprintf("expected %s, found %s", what, found))
	}

	first, last := tokens[0], tokens[n-1]
	text := b.input[first.Pos.Offset:last.End]
	leaf, err := expr.ParseLeaf(text)
	if err != nil {
		if k, ok := b.strayMarker(tokens, runs); ok {
			// End the leaf before the run; the caller reports the run as
			// an unknown marker.
			last, n = tokens[k-1], k
			text = b.input[first.Pos.Offset:last.End]
			leaf, err = expr.ParseLeaf(text)
		}
	}
	if err != nil {
		return expr.Leaf{}, cur, b.errorAt(ErrorMalformedLeaf, first.Pos, text,
			fmt.Sprintf("%s is not a valid Go expression: %v", what, unwrapLeafError(err)))
	}

	leaf = leaf.At(expr.Span{
		Start:  first.Pos.Offset,
		End:    last.End,
		Line:   first.Pos.Line,
		Column: first.Pos.Column,
	})
	return leaf, cur.advance(n), nil
}

// strayMarker finds the first joint punctuation run of two or more tokens,
// such as "+>" or "|>>", that is preceded by a valid expression. Go spells
// each operator as one token, so such a run in a leaf that does not parse is
// treated as a mistyped marker.
func (b *builder) strayMarker(tokens []lexer.Token, runs []int) (int, bool) {
	first := tokens[0]
	for _, k := range runs {
		if k == 0 || len(jointRun(tokens[k:])) < 2 {
			continue
		}
		if _, err := expr.ParseLeaf(b.input[first.Pos.Offset:tokens[k-1].End]); err == nil {
			return k, true
		}
	}
	return 0, false
}

func unwrapLeafError(err error) error {
	if le, ok := err.(*expr.LeafError); ok && le.Err != nil {
		return le.Err
	}
	return err
}

func (b *builder) classificationError(cur cursor, message string) error {
	if cur.atEnd() {
		return b.errorAt(ErrorClassification, cur.position(), "", message+", found end of input")
	}
	found := runText(cur.rest())
	if found == "" {
		found = cur.rest()[0].Text
	}
	err := b.errorAt(ErrorClassification, cur.position(), found, fmt.Sprintf("%s, found `%s`", message, found))
	err.Suggestions = b.determiner.Suggest(found)
	return err
}

func (b *builder) errorAt(typ ErrorType, pos lexer.Position, found, message string) *ParseError {
	return &ParseError{
		Type:     typ,
		Message:  message,
		Pos:      pos,
		Input:    b.input,
		Filename: b.config.filename,
		Found:    found,
	}
}

// closingPosition locates the closing delimiter of a GROUP token.
func closingPosition(group lexer.Token) lexer.Position {
	pos := group.Pos
	pos.Offset = group.End - 1
	for i := 0; i < len(group.Text)-1; i++ {
		if group.Text[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
