package expand

import (
	"go/parser"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/join/internal/gentest"
	"github.com/opal-lang/join/runtime/codegen"
	jparser "github.com/opal-lang/join/runtime/parser"
)

// imports returns the import specs of src as "name path" or "path".
func imports(t *testing.T, src []byte) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ImportsOnly)
	require.NoError(t, err)
	var out []string
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		require.NoError(t, err)
		if spec.Name != nil {
			p = spec.Name.Name + " " + p
		}
		out = append(out, p)
	}
	return out
}

const singleChain = `package demo

import "strconv"

func load(s string) result.Result[int] {
	return join!(result.Of(strconv.Atoi(s)) |> double ~<= fallback)
}
`

func TestFileSingleChain(t *testing.T) {
	res, err := File([]byte(singleChain))
	require.NoError(t, err)

	out := string(res.Source)
	assert.Contains(t, out, "return result.OrElse(result.Map(result.Of(strconv.Atoi(s)), double), fallback)")
	assert.NotContains(t, out, "join!")
	assert.ElementsMatch(t, []string{"strconv", DefaultResultImport}, imports(t, res.Source))

	require.Len(t, res.Expansions, 1)
	e := res.Expansions[0]
	assert.Equal(t, MacroJoin, e.Macro)
	assert.Equal(t, 6, e.Pos.Line)
	assert.False(t, e.Joined())
}

const joined = `package demo

func both() {
	go func() {
		a, b := join!(fetch(1) => parse, fetch(2) ~|> decode)
		use(a, b)
	}()
	c, d := join_seq!(x &> (y ?? log))
	use(c, d)
	if join != nil {
		return
	}
}
`

func TestFileJoins(t *testing.T) {
	res, err := File([]byte(joined))
	require.NoError(t, err)

	out := string(res.Source)
	assert.Contains(t, out, "a, b := join.All2(join.AndThen(join.Seed(fetch(1)), parse), "+
		"join.Map(join.Sync(join.Seed(fetch(2)), 1), decode))")
	assert.Contains(t, out, "c, d := join.Seq2(join.Seed(x), join.Inspect(join.Seed(y), log))")
	assert.Contains(t, out, "if join != nil {")
	assert.Equal(t, []string{DefaultJoinImport}, imports(t, res.Source))
	gentest.AssertPatterns(t, string(res.Source), gentest.FilePattern{}, gentest.ImportPattern{Path: DefaultJoinImport})
	gentest.AssertPatterns(t, res.Expansions[0].Code, gentest.JoinPattern{Lanes: 2})
	gentest.AssertPatterns(t, res.Expansions[1].Code, gentest.JoinPattern{Lanes: 2, Sequential: true})

	require.Len(t, res.Expansions, 2)
	assert.Equal(t, codegen.ModeParallel, res.Expansions[0].Mode)
	assert.Equal(t, MacroJoinSeq, res.Expansions[1].Macro)
	assert.Equal(t, codegen.ModeSequential, res.Expansions[1].Mode)
}

func TestFileSequentialByDefault(t *testing.T) {
	res, err := File([]byte(joined), WithMode(codegen.ModeSequential))
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "a, b := join.Seq2(")
}

func TestFileWithoutMacros(t *testing.T) {
	src := "package demo\n\nfunc f()   {}\n"
	res, err := File([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, res.Expansions)
	assert.Equal(t, "package demo\n\nfunc f() {}\n", string(res.Source))
}

func TestFileCustomImports(t *testing.T) {
	res, err := File([]byte(singleChain),
		WithResultImport("example.com/fp/result/v2"),
		WithJoinImport("example.com/fp/par"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"strconv", "result example.com/fp/result/v2"}, imports(t, res.Source))
	gentest.AssertPatterns(t, string(res.Source),
		gentest.FilePattern{},
		gentest.ImportPattern{Path: "example.com/fp/result/v2", Name: "result"},
	)
}

func TestFileErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		typ    jparser.ErrorType
		line   int
		column int
	}{
		{
			name:   "dangling deferred marker",
			src:    "package demo\n\nvar v = join!(a ~)\n",
			typ:    jparser.ErrorClassification,
			line:   3,
			column: 18,
		},
		{
			name:   "malformed leaf",
			src:    "package demo\n\nvar v = join!(a |> )\n",
			typ:    jparser.ErrorMalformedLeaf,
			line:   3,
			column: 20,
		},
		{
			name:   "unterminated string",
			src:    "package demo\n\nvar v = \"oops\n",
			typ:    jparser.ErrorSyntax,
			line:   3,
			column: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := File([]byte(tt.src), WithFilename("demo.gojoin"))
			var pe *jparser.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.typ, pe.Type)
			assert.Equal(t, tt.line, pe.Pos.Line, "line")
			assert.Equal(t, tt.column, pe.Pos.Column, "column")
			assert.Equal(t, "demo.gojoin", pe.Filename)
		})
	}
}

func TestFileTooManyLanes(t *testing.T) {
	src := "package demo\n\nvar a, b, c = join!(x, y, z)\n"
	_, err := File([]byte(src), WithMaxLanes(2), WithFilename("demo.gojoin"))

	var ge *codegen.GeneratorError
	require.ErrorAs(t, err, &ge)
	assert.Contains(t, err.Error(), "demo.gojoin:3:15: join!:")
}

func TestFingerprint(t *testing.T) {
	fingerprint := func(src string) string {
		t.Helper()
		res, err := File([]byte(src))
		require.NoError(t, err)
		fp, err := res.Fingerprint()
		require.NoError(t, err)
		return fp
	}

	base := fingerprint(singleChain)
	assert.Equal(t, base, fingerprint(singleChain+"\nfunc unrelated() {}\n"))
	assert.NotEqual(t, base, fingerprint(singleChain+"\nvar x = join!(a |> f)\n"))
	assert.NotEqual(t, base, fingerprint(joined))
}

func TestExpression(t *testing.T) {
	e, err := Expression([]byte("a -> b ~<= c"))
	require.NoError(t, err)
	assert.Equal(t, "result.OrElse(result.Then(a, b), c)", e.Code)

	e, err = Expression([]byte("a, b"), WithMode(codegen.ModeSequential), WithJoinImport("example.com/par"))
	require.NoError(t, err)
	assert.Equal(t, "par.Seq2(par.Seed(a), par.Seed(b))", e.Code)
	assert.True(t, e.Joined())

	_, err = Expression([]byte("a -> b ~"))
	assert.True(t, jparser.IsErrorType(err, jparser.ErrorClassification))
}
