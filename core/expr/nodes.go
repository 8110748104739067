package expr

import "fmt"

// ExprExtractor is implemented by every node that is logically associated
// with a single leaf expression.
type ExprExtractor interface {
	ExtractExpr() Leaf
}

// Rewritable is the read/rewrite capability shared by all nodes. Replace
// never mutates the receiver: it returns a new node of the same variant built
// from the last leaf in exprs, or false when exprs is empty.
type Rewritable[T any] interface {
	InnerExprs() []Leaf
	ReplaceInnerExprs(exprs []Leaf) (T, bool)
}

// lastLeaf implements the shared replacement rule.
func lastLeaf(exprs []Leaf) (Leaf, bool) {
	if len(exprs) == 0 {
		return Leaf{}, false
	}
	return exprs[len(exprs)-1], true
}

// InitialExpr is the seed value of a chain. It has no predecessor and is
// always evaluated eagerly.
type InitialExpr struct {
	Expr Leaf
}

// NewInitial wraps leaf as a chain seed.
func NewInitial(leaf Leaf) InitialExpr {
	return InitialExpr{Expr: leaf}
}

func (e InitialExpr) ExtractExpr() Leaf {
	return e.Expr
}

func (e InitialExpr) InnerExprs() []Leaf {
	return []Leaf{e.Expr}
}

// ReplaceInnerExprs keeps only the last of exprs; earlier entries are dropped.
func (e InitialExpr) ReplaceInnerExprs(exprs []Leaf) (InitialExpr, bool) {
	leaf, ok := lastLeaf(exprs)
	if !ok {
		return InitialExpr{}, false
	}
	return InitialExpr{Expr: leaf}, true
}

// String re-emits the seed verbatim: it is a value, not a combinator call.
func (e InitialExpr) String() string {
	return e.Expr.Text
}

// ProcessExpr is a transform-style action.
type ProcessExpr struct {
	Kind ProcessKind
	Expr Leaf
}

func Map(leaf Leaf) ProcessExpr     { return ProcessExpr{Kind: ProcessMap, Expr: leaf} }
func TryMap(leaf Leaf) ProcessExpr  { return ProcessExpr{Kind: ProcessTryMap, Expr: leaf} }
func AndThen(leaf Leaf) ProcessExpr { return ProcessExpr{Kind: ProcessAndThen, Expr: leaf} }
func Then(leaf Leaf) ProcessExpr    { return ProcessExpr{Kind: ProcessThen, Expr: leaf} }
func Filter(leaf Leaf) ProcessExpr  { return ProcessExpr{Kind: ProcessFilter, Expr: leaf} }
func Inspect(leaf Leaf) ProcessExpr { return ProcessExpr{Kind: ProcessInspect, Expr: leaf} }

func (e ProcessExpr) ExtractExpr() Leaf {
	return e.Expr
}

func (e ProcessExpr) InnerExprs() []Leaf {
	return []Leaf{e.Expr}
}

func (e ProcessExpr) ReplaceInnerExprs(exprs []Leaf) (ProcessExpr, bool) {
	leaf, ok := lastLeaf(exprs)
	if !ok {
		return ProcessExpr{}, false
	}
	return ProcessExpr{Kind: e.Kind, Expr: leaf}, true
}

func (e ProcessExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Expr.Text)
}

// DefaultExpr is a fallback-style action, applied only on failure.
type DefaultExpr struct {
	Kind DefaultKind
	Expr Leaf
}

func Or(leaf Leaf) DefaultExpr     { return DefaultExpr{Kind: DefaultOr, Expr: leaf} }
func OrElse(leaf Leaf) DefaultExpr { return DefaultExpr{Kind: DefaultOrElse, Expr: leaf} }
func MapErr(leaf Leaf) DefaultExpr { return DefaultExpr{Kind: DefaultMapErr, Expr: leaf} }

func (e DefaultExpr) ExtractExpr() Leaf {
	return e.Expr
}

func (e DefaultExpr) InnerExprs() []Leaf {
	return []Leaf{e.Expr}
}

func (e DefaultExpr) ReplaceInnerExprs(exprs []Leaf) (DefaultExpr, bool) {
	leaf, ok := lastLeaf(exprs)
	if !ok {
		return DefaultExpr{}, false
	}
	return DefaultExpr{Kind: e.Kind, Expr: leaf}, true
}

func (e DefaultExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Expr.Text)
}
