package expr

import "fmt"

// Action is the set of node types that can be scheduled.
type Action[T any] interface {
	ProcessExpr | DefaultExpr
	ExprExtractor
	Rewritable[T]
}

// InstantOrDeferred tags an action with its scheduling intent. An instant
// action runs at its textual position; a deferred one waits until every
// sibling chain has finished the stage before it.
type InstantOrDeferred[T Action[T]] struct {
	Deferred bool
	Expr     T
}

// Instant tags x for in-place execution.
func Instant[T Action[T]](x T) InstantOrDeferred[T] {
	return InstantOrDeferred[T]{Expr: x}
}

// Defer tags x for execution after the sibling synchronisation point.
func Defer[T Action[T]](x T) InstantOrDeferred[T] {
	return InstantOrDeferred[T]{Deferred: true, Expr: x}
}

// IsDeferred reports the scheduling tag.
func (s InstantOrDeferred[T]) IsDeferred() bool {
	return s.Deferred
}

// Inner removes the scheduling tag.
func (s InstantOrDeferred[T]) Inner() T {
	return s.Expr
}

// ExtractExpr unwraps the tag, then the action.
func (s InstantOrDeferred[T]) ExtractExpr() Leaf {
	return s.Expr.ExtractExpr()
}

func (s InstantOrDeferred[T]) InnerExprs() []Leaf {
	return s.Expr.InnerExprs()
}

// ReplaceInnerExprs rebuilds the wrapped action and keeps the tag.
func (s InstantOrDeferred[T]) ReplaceInnerExprs(exprs []Leaf) (InstantOrDeferred[T], bool) {
	inner, ok := s.Expr.ReplaceInnerExprs(exprs)
	if !ok {
		return InstantOrDeferred[T]{}, false
	}
	return InstantOrDeferred[T]{Deferred: s.Deferred, Expr: inner}, true
}

func (s InstantOrDeferred[T]) String() string {
	if s.Deferred {
		return fmt.Sprintf("Deferred(%v)", s.Expr)
	}
	return fmt.Sprintf("Instant(%v)", s.Expr)
}

// ProcessAction is a scheduled process action.
type ProcessAction = InstantOrDeferred[ProcessExpr]

// DefaultAction is a scheduled default action.
type DefaultAction = InstantOrDeferred[DefaultExpr]
