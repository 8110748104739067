// Package codegen turns built chains into Go expressions.
//
// A lone chain becomes eager nested calls on the result package:
//
//	a -> b |> c        =>  result.Map(result.Then(a, b), c)
//
// Joined chains become lazy pipes handed to one join call, with a Sync
// barrier in front of every deferred action:
//
//	a => f ~|> g, b    =>  join.All2(join.Map(join.Sync(join.AndThen(join.Seed(a), f), 1), g), join.Seed(b))
package codegen

// GenOps provides the building blocks for chain code generation. One
// implementation emits eager result calls, another emits lazy join pipes; the
// generator walks a chain the same way for both.
type GenOps interface {
	// Seed starts a chain from its initial expression.
	Seed(leaf string) TempResult

	// Apply wraps prev in the named combinator with leaf as its argument.
	Apply(combinator string, prev TempResult, leaf string) TempResult

	// Sync places the barrier that opens stage k (1-based).
	Sync(prev TempResult, stage int) TempResult
}

// TempResult is the Go source built so far for one chain.
type TempResult interface {
	String() string
}

// eagerOps emits direct calls on the result package.
type eagerOps struct {
	result string // package qualifier
}

func (o eagerOps) Seed(leaf string) TempResult {
	return NewTempResult(leaf)
}

func (o eagerOps) Apply(combinator string, prev TempResult, leaf string) TempResult {
	return NewTempResult(Call(o.result, combinator, prev.String(), leaf))
}

// Sync is a no-op: a lone chain has no siblings to wait for, and its
// deferred actions already sit after the instant ones before them.
func (o eagerOps) Sync(prev TempResult, _ int) TempResult {
	return prev
}

// laneOps emits lazy pipe constructors from the join package.
type laneOps struct {
	join string // package qualifier
}

func (o laneOps) Seed(leaf string) TempResult {
	return NewTempResult(Call(o.join, "Seed", leaf))
}

func (o laneOps) Apply(combinator string, prev TempResult, leaf string) TempResult {
	return NewTempResult(Call(o.join, combinator, prev.String(), leaf))
}

func (o laneOps) Sync(prev TempResult, stage int) TempResult {
	return NewTempResult(Call(o.join, "Sync", prev.String(), FormatInt(stage)))
}
