package gentest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern CodePattern
		code    string
		want    bool
	}{
		{"join matches", JoinPattern{Lanes: 2}, "join.All2(join.Seed(a), join.Seed(b))", true},
		{"join wrong arity", JoinPattern{Lanes: 3}, "join.All2(join.Seed(a), join.Seed(b))", false},
		{"join wrong mode", JoinPattern{Lanes: 2, Sequential: true}, "join.All2(join.Seed(a), join.Seed(b))", false},
		{"join qualifier", JoinPattern{Qualifier: "par", Lanes: 1, Sequential: true}, "par.Seq1(x)", true},
		{"join not a call", JoinPattern{Lanes: 2}, "a + b", false},

		{"barriers in order", BarrierPattern{Stages: 2}, "join.Map(join.Sync(join.Map(join.Sync(join.Seed(a), 1), f), 2), g)", true},
		{"missing barrier", BarrierPattern{Stages: 2}, "join.Map(join.Sync(join.Seed(a), 1), f)", false},
		{"no barriers", BarrierPattern{}, "join.Seed(a)", true},

		{"nesting", NestingPattern{Combinators: []string{"Then", "OrElse"}}, "result.OrElse(result.Then(a, b), c)", true},
		{"nesting reversed", NestingPattern{Combinators: []string{"OrElse", "Then"}}, "result.OrElse(result.Then(a, b), c)", false},
		{"nesting skips seed call", NestingPattern{Combinators: []string{"Map"}}, "result.Map(load(p), f)", true},

		{"import", ImportPattern{Path: "example.com/r"}, "package p\n\nimport \"example.com/r\"\n", true},
		{"named import", ImportPattern{Path: "example.com/r/v2", Name: "r"}, "package p\n\nimport r \"example.com/r/v2\"\n", true},
		{"import missing", ImportPattern{Path: "example.com/r"}, "package p\n", false},

		{"valid file", FilePattern{}, "package p\n\nvar x = 1\n", true},
		{"invalid file", FilePattern{}, "package p\n\nvar x = join!(a)\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Matches(tt.code))
			assert.NotEmpty(t, tt.pattern.Description())
		})
	}
}

// recorder is a testing.TB that only records failures.
type recorder struct {
	testing.TB
	failures int
}

func (r *recorder) Helper()               {}
func (r *recorder) Errorf(string, ...any) { r.failures++ }

func TestAssertPatterns(t *testing.T) {
	fake := &recorder{}
	AssertPatterns(fake, "join.All2(a, b)", JoinPattern{Lanes: 3}, JoinPattern{Lanes: 2}, FilePattern{})
	assert.Equal(t, 2, fake.failures)

	AssertPatterns(t, "join.All2(a, b)", JoinPattern{Lanes: 2})
}
