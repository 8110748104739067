package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Chain is one pipeline: an Initial seed followed by process and default
// actions in source order.
type Chain struct {
	Actions []ActionExpr
	Span    Span
}

// Well-formedness violations reported by Validate.
var (
	ErrEmptyChain       = errors.New("chain has no actions")
	ErrMissingInitial   = errors.New("chain does not start with an initial expression")
	ErrMisplacedInitial = errors.New("initial expression after the first position")
	ErrMalformedAction  = errors.New("action payload does not match its kind")
)

// NewChain builds a chain seeded with initial.
func NewChain(initial Leaf) Chain {
	return Chain{
		Actions: []ActionExpr{NewInitialAction(NewInitial(initial))},
		Span:    initial.Span,
	}
}

// Validate checks that the chain is non-empty, starts with Initial and has no
// other Initial. Every action must carry the payload its Kind names.
func (c Chain) Validate() error {
	if len(c.Actions) == 0 {
		return ErrEmptyChain
	}
	for i, a := range c.Actions {
		if !a.wellFormed() {
			return fmt.Errorf("%w: index %d (%v)", ErrMalformedAction, i, a.Kind)
		}
	}
	if c.Actions[0].Kind != ActionInitial {
		return ErrMissingInitial
	}
	for i, a := range c.Actions[1:] {
		if a.Kind == ActionInitial {
			return fmt.Errorf("%w: index %d", ErrMisplacedInitial, i+1)
		}
	}
	return nil
}

// Initial returns the seed node. The chain must be well formed.
func (c Chain) Initial() InitialExpr {
	return *c.Actions[0].Initial
}

// Append returns a copy of the chain with a added. The receiver is unchanged.
func (c Chain) Append(a ActionExpr) Chain {
	actions := make([]ActionExpr, len(c.Actions), len(c.Actions)+1)
	copy(actions, c.Actions)
	return Chain{Actions: append(actions, a), Span: c.Span}
}

// DeferredCount is the number of synchronisation points in the chain.
func (c Chain) DeferredCount() int {
	n := 0
	for _, a := range c.Actions {
		if a.IsDeferred() {
			n++
		}
	}
	return n
}

// Stages splits the actions after the seed at every deferred action. Stage 0
// holds the instant prefix (possibly empty); each later stage starts with the
// deferred action that opens it.
func (c Chain) Stages() [][]ActionExpr {
	stages := [][]ActionExpr{{}}
	if len(c.Actions) < 2 {
		return stages
	}
	for _, a := range c.Actions[1:] {
		if a.IsDeferred() {
			stages = append(stages, nil)
		}
		last := len(stages) - 1
		stages[last] = append(stages[last], a)
	}
	return stages
}

// Leaves returns every leaf in chain order.
func (c Chain) Leaves() []Leaf {
	leaves := make([]Leaf, 0, len(c.Actions))
	for _, a := range c.Actions {
		leaves = append(leaves, a.InnerExprs()...)
	}
	return leaves
}

// Rewrite returns a new chain with every leaf passed through fn. Nodes keep
// their kind and scheduling tag.
func (c Chain) Rewrite(fn func(Leaf) Leaf) Chain {
	out := Chain{Actions: make([]ActionExpr, len(c.Actions)), Span: c.Span}
	for i, a := range c.Actions {
		replaced, ok := a.ReplaceInnerExprs([]Leaf{fn(a.ExtractExpr())})
		if !ok {
			replaced = a
		}
		out.Actions[i] = replaced
	}
	return out
}

func (c Chain) String() string {
	parts := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
