package codegen_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/opal-lang/join/runtime/codegen"
	"github.com/opal-lang/join/runtime/parser"
)

func Example() {
	tree, err := parser.ParseString("load(path) |>? decode ~<= fallback")
	if err != nil {
		panic(err)
	}

	code, err := codegen.New().Generate(tree.Chains)
	if err != nil {
		panic(err)
	}
	fmt.Println(code)
	// Output: result.OrElse(result.TryMap(load(path), decode), fallback)
}

func Example_joined() {
	tree, err := parser.ParseString("a => f ~|> g, b")
	if err != nil {
		panic(err)
	}

	code, err := codegen.New(codegen.WithMode(codegen.ModeSequential)).Generate(tree.Chains)
	if err != nil {
		panic(err)
	}
	fmt.Println(code)
	// Output: join.Seq2(join.Map(join.Sync(join.AndThen(join.Seed(a), f), 1), g), join.Seed(b))
}

// traceOps renders a chain as a readable pipeline, to show that the walk is
// independent of the Go runtime being targeted.
type traceOps struct{}

func (traceOps) Seed(leaf string) codegen.TempResult {
	return codegen.NewTempResult(leaf)
}

func (traceOps) Apply(combinator string, prev codegen.TempResult, leaf string) codegen.TempResult {
	return codegen.NewTempResult(prev.String() + " | " + strings.ToLower(combinator) + " " + leaf)
}

func (traceOps) Sync(prev codegen.TempResult, stage int) codegen.TempResult {
	return codegen.NewTempResult(fmt.Sprintf("%s | wait(%d)", prev, stage))
}

func TestGenOpsPatterns(t *testing.T) {
	tree, err := parser.ParseString("x => a ~!> b ?? c ~-> d")
	if err != nil {
		t.Fatal(err)
	}

	got := codegen.New().GenerateChain(traceOps{}, tree.Chains[0])
	want := "x | andthen a | wait(1) | maperr b | inspect c | wait(2) | then d"
	if got.String() != want {
		t.Errorf("GenerateChain() = %q, want %q", got.String(), want)
	}
}
