package chainfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/join/core/chainfmt"
	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/runtime/parser"
)

func chains(t *testing.T, body string) []expr.Chain {
	t.Helper()
	tree, err := parser.ParseString(body)
	require.NoError(t, err)
	return tree.Chains
}

func TestCanonicalize(t *testing.T) {
	got, err := chainfmt.Canonicalize(chains(t, "a -> b ~<=  f(x,y)"), "parallel")
	require.NoError(t, err)

	want := &chainfmt.Canonical{
		Version: chainfmt.Version,
		Mode:    "parallel",
		Chains: []chainfmt.CanonicalChain{{
			Actions: []chainfmt.CanonicalAction{
				{Kind: "Initial", Name: "Initial", Expr: "a"},
				{Kind: "Process", Name: "Then", Expr: "b"},
				{Kind: "Default", Name: "OrElse", Deferred: true, Expr: "f(x, y)"},
			},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Canonicalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalizeRejectsMalformedChain(t *testing.T) {
	bad := []expr.Chain{{}}
	_, err := chainfmt.Canonicalize(bad, "parallel")
	assert.ErrorIs(t, err, expr.ErrEmptyChain)
}

func TestMarshalDeterminism(t *testing.T) {
	c, err := chainfmt.Canonicalize(chains(t, "a |> f ~?? g, b => h"), "sequential")
	require.NoError(t, err)

	first, err := c.MarshalBinary()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := c.MarshalBinary()
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, again), "encoding %d differs", i)
	}

	other := *c
	other.Version = chainfmt.Version + 1
	bumped, err := other.MarshalBinary()
	require.NoError(t, err)
	assert.False(t, bytes.Equal(first, bumped), "version must be part of the encoding")
}

func TestFingerprint(t *testing.T) {
	fp := func(body, mode string) string {
		t.Helper()
		s, err := chainfmt.Fingerprint(chains(t, body), mode)
		require.NoError(t, err)
		return s
	}

	base := fp("a |> f(x, y), b", "parallel")
	assert.True(t, strings.HasPrefix(base, chainfmt.FingerprintPrefix))
	assert.Len(t, strings.TrimPrefix(base, chainfmt.FingerprintPrefix), 64)

	assert.Equal(t, base, fp("a|>f(x,y) , b", "parallel"), "layout must not matter")
	assert.Equal(t, base, fp("a |> f(x, y) &> (b)", "parallel"), "join syntax must not matter")
	assert.NotEqual(t, base, fp("a |> f(x, y), b", "sequential"))
	assert.NotEqual(t, base, fp("a ~|> f(x, y), b", "parallel"))
	assert.NotEqual(t, base, fp("a |>? f(x, y), b", "parallel"))
	assert.NotEqual(t, base, fp("b, a |> f(x, y)", "parallel"))
}

func TestDigest(t *testing.T) {
	a, err := chainfmt.Canonicalize(chains(t, "a |> f"), "parallel")
	require.NoError(t, err)
	b, err := chainfmt.Canonicalize(chains(t, "b, c"), "parallel")
	require.NoError(t, err)

	single, err := chainfmt.Fingerprint(chains(t, "a |> f"), "parallel")
	require.NoError(t, err)
	one, err := chainfmt.Digest(a)
	require.NoError(t, err)
	assert.Equal(t, single, one)

	ab, err := chainfmt.Digest(a, b)
	require.NoError(t, err)
	ba, err := chainfmt.Digest(b, a)
	require.NoError(t, err)
	assert.NotEqual(t, ab, ba)
	assert.NotEqual(t, one, ab)
}

func TestFormatTree(t *testing.T) {
	tests := []struct {
		name   string
		chains []expr.Chain
		want   string
	}{
		{
			name:   "empty",
			chains: nil,
			want:   "(no chains)\n",
		},
		{
			name:   "single chain",
			chains: chains(t, "a -> b ~<= c"),
			want: "chain:\n" +
				"├─ a\n" +
				"├─ -> b  Then\n" +
				"└─ ~<= c  OrElse, stage 1\n",
		},
		{
			name:   "join",
			chains: chains(t, "a ~|> f ~?? g, b"),
			want: "join (parallel, 2 chains):\n" +
				"├─ chain 1\n" +
				"│  ├─ a\n" +
				"│  ├─ ~|> f  Map, stage 1\n" +
				"│  └─ ~?? g  Inspect, stage 2\n" +
				"└─ chain 2\n" +
				"   └─ b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			chainfmt.FormatTree(&buf, tt.chains, "parallel", false)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("FormatTree() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatTreeColor(t *testing.T) {
	var buf bytes.Buffer
	chainfmt.FormatTree(&buf, chains(t, "a |> f"), "parallel", true)
	assert.Contains(t, buf.String(), chainfmt.ColorYellow+"|>"+chainfmt.ColorReset)
	assert.Equal(t, "x", chainfmt.Colorize("x", chainfmt.ColorGray, false))
}
