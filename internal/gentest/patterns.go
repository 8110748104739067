// Package gentest checks the shape of generated code in tests.
package gentest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"
)

// CodePattern represents a semantic pattern to validate in generated code
type CodePattern interface {
	Matches(code string) bool
	Description() string
}

// AssertPatterns fails t for every pattern code does not match.
func AssertPatterns(t testing.TB, code string, patterns ...CodePattern) {
	t.Helper()
	for _, p := range patterns {
		if !p.Matches(code) {
			t.Errorf("generated code does not show %s:\n%s", p.Description(), code)
		}
	}
}

// JoinPattern validates that code is a single join of Lanes chains
type JoinPattern struct {
	Qualifier  string // defaults to "join"
	Lanes      int
	Sequential bool
}

func (j JoinPattern) fn() string {
	q := j.Qualifier
	if q == "" {
		q = "join"
	}
	if j.Sequential {
		return fmt.Sprintf("%s.Seq%d", q, j.Lanes)
	}
	return fmt.Sprintf("%s.All%d", q, j.Lanes)
}

func (j JoinPattern) Matches(code string) bool {
	call, ok := parseCall(code)
	if !ok || calleeName(call) != j.fn() {
		return false
	}
	return len(call.Args) == j.Lanes
}

func (j JoinPattern) Description() string {
	mode := "parallel"
	if j.Sequential {
		mode = "sequential"
	}
	return fmt.Sprintf("%s join of %d chains (%s)", mode, j.Lanes, j.fn())
}

// BarrierPattern validates that a lane synchronizes at stages 1..Stages in
// order and at no other stage
type BarrierPattern struct {
	Stages int
}

func (b BarrierPattern) Matches(code string) bool {
	last := -1
	for stage := 1; stage <= b.Stages; stage++ {
		i := strings.Index(code, ", "+strconv.Itoa(stage)+")")
		if i < 0 || i < last {
			return false
		}
		last = i
	}
	return strings.Count(code, "Sync(") == b.Stages
}

func (b BarrierPattern) Description() string {
	return fmt.Sprintf("%d ordered stage barriers", b.Stages)
}

// NestingPattern validates the order combinators are applied in. Calls are
// followed through their first argument, so the innermost call comes first:
// result.Map(result.Then(a, b), c) applies Then, Map.
type NestingPattern struct {
	Combinators []string
}

func (n NestingPattern) Matches(code string) bool {
	call, ok := parseCall(code)
	if !ok {
		return false
	}
	var names []string
	for call != nil {
		name := calleeName(call)
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		names = append([]string{name}, names...)
		if len(call.Args) == 0 {
			break
		}
		call, _ = call.Args[0].(*ast.CallExpr)
	}

	// The innermost call is the seed expression itself unless it is a
	// combinator; drop names until the sequences line up.
	for len(names) > len(n.Combinators) {
		names = names[1:]
	}
	return strings.Join(names, ",") == strings.Join(n.Combinators, ",")
}

func (n NestingPattern) Description() string {
	return "combinators applied as " + strings.Join(n.Combinators, " then ")
}

// ImportPattern validates that a file imports Path, optionally under Name
type ImportPattern struct {
	Path string
	Name string
}

func (p ImportPattern) Matches(code string) bool {
	f, err := parser.ParseFile(token.NewFileSet(), "", code, parser.ImportsOnly)
	if err != nil {
		return false
	}
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path != p.Path {
			continue
		}
		if p.Name == "" {
			return spec.Name == nil
		}
		return spec.Name != nil && spec.Name.Name == p.Name
	}
	return false
}

func (p ImportPattern) Description() string {
	if p.Name != "" {
		return fmt.Sprintf("import %s %q", p.Name, p.Path)
	}
	return fmt.Sprintf("import %q", p.Path)
}

// FilePattern validates that code is a syntactically valid Go file
type FilePattern struct{}

func (FilePattern) Matches(code string) bool {
	_, err := parser.ParseFile(token.NewFileSet(), "", code, parser.AllErrors)
	return err == nil
}

func (FilePattern) Description() string {
	return "a valid Go file"
}

func parseCall(code string) (*ast.CallExpr, bool) {
	e, err := parser.ParseExpr(code)
	if err != nil {
		return nil, false
	}
	call, ok := e.(*ast.CallExpr)
	return call, ok
}

// calleeName renders pkg.Fn or Fn for a call.
func calleeName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		if x, ok := fn.X.(*ast.Ident); ok {
			return x.Name + "." + fn.Sel.Name
		}
		return fn.Sel.Name
	default:
		return ""
	}
}
