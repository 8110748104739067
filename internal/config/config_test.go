package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/join/runtime/codegen"
	"github.com/opal-lang/join/runtime/expand"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want Config
	}{
		{
			name: "empty file keeps defaults",
			yaml: "",
			want: Default(),
		},
		{
			name: "partial override",
			yaml: "mode: sequential\nmax_lanes: 3\n",
			want: Config{
				Mode:         "sequential",
				ResultImport: "github.com/opal-lang/join/result",
				JoinImport:   "github.com/opal-lang/join",
				MaxLanes:     3,
				Suffix:       "_join.go",
			},
		},
		{
			name: "everything",
			yaml: `
mode: parallel
result_import: example.com/fp/result/v2
join_import: example.com/fp/par
max_lanes: 5
suffix: .gen.go
`,
			want: Config{
				Mode:         "parallel",
				ResultImport: "example.com/fp/result/v2",
				JoinImport:   "example.com/fp/par",
				MaxLanes:     5,
				Suffix:       ".gen.go",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{"bad yaml", "mode: [", "invalid YAML"},
		{"unknown mode", "mode: eventually", "invalid config"},
		{"unknown key", "modes: parallel", "invalid config"},
		{"too many lanes", "max_lanes: 6", "invalid config"},
		{"lanes not a number", "max_lanes: lots", "invalid config"},
		{"suffix without .go", "suffix: _join.txt", "invalid config"},
		{"bad import path", "join_import: \"github.com/a b/join\"", "join_import"},
		{"empty import path", "result_import: \"\"", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mode: sequential\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "sequential", cfg.Mode)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid file names the path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_lanes: 0\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("no default file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestExpandOptions(t *testing.T) {
	cfg := Default()
	cfg.Mode = "sequential"
	cfg.JoinImport = "example.com/par/v3"
	assert.Equal(t, codegen.ModeSequential, cfg.JoinMode())

	e, err := expand.Expression([]byte("a, b |> f"), cfg.ExpandOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "par.Seq2(par.Seed(a), par.Map(par.Seed(b), f))", e.Code)

	opts := append(cfg.ExpandOptions(), expand.WithMode(codegen.ModeParallel))
	e, err = expand.Expression([]byte("a, b"), opts...)
	require.NoError(t, err)
	assert.Equal(t, "par.All2(par.Seed(a), par.Seed(b))", e.Code)

	cfg.MaxLanes = 2
	_, err = expand.Expression([]byte("a, b, c"), cfg.ExpandOptions()...)
	assert.Error(t, err)
}
