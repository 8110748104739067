// Package config loads joingen.yaml.
//
// The file is read as YAML, checked against an embedded JSON Schema and then
// decoded onto the defaults, so a missing key keeps its default value.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/opal-lang/join/runtime/codegen"
	"github.com/opal-lang/join/runtime/expand"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "joingen.yaml"

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://joingen.json"

// Config is the decoded configuration file.
type Config struct {
	Mode         string `mapstructure:"mode"`
	ResultImport string `mapstructure:"result_import"`
	JoinImport   string `mapstructure:"join_import"`
	MaxLanes     int    `mapstructure:"max_lanes"`
	Suffix       string `mapstructure:"suffix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Mode:         codegen.ModeParallel.String(),
		ResultImport: "github.com/opal-lang/join/result",
		JoinImport:   "github.com/opal-lang/join",
		MaxLanes:     codegen.MaxLanes,
		Suffix:       "_join.go",
	}
}

// Load reads the file at path. An empty path falls back to DefaultFile, and
// a missing DefaultFile yields Default(). A missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (Config, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if err := validateSchema(raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the schema cannot express.
func (c Config) Validate() error {
	if _, err := codegen.ParseMode(c.Mode); err != nil {
		return err
	}
	for key, p := range map[string]string{"result_import": c.ResultImport, "join_import": c.JoinImport} {
		if err := module.CheckImportPath(p); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if c.MaxLanes < 1 || c.MaxLanes > codegen.MaxLanes {
		return fmt.Errorf("max_lanes must be between 1 and %d, got %d", codegen.MaxLanes, c.MaxLanes)
	}
	if !strings.HasSuffix(c.Suffix, ".go") {
		return fmt.Errorf("suffix %q must end in .go", c.Suffix)
	}
	return nil
}

// JoinMode is the parsed Mode. Validate has already rejected unknown modes.
func (c Config) JoinMode() codegen.Mode {
	mode, err := codegen.ParseMode(c.Mode)
	if err != nil {
		return codegen.ModeParallel
	}
	return mode
}

// ExpandOptions translates the configuration into expansion options. Options
// appended by the caller override these.
func (c Config) ExpandOptions() []expand.Option {
	return []expand.Option{
		expand.WithResultImport(c.ResultImport),
		expand.WithJoinImport(c.JoinImport),
		expand.WithMode(c.JoinMode()),
		expand.WithMaxLanes(c.MaxLanes),
	}
}

func validateSchema(raw map[string]any) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("loading config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	// Round trip through JSON so the validator sees plain JSON values.
	doc, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var value any
	if err := json.Unmarshal(doc, &value); err != nil {
		return err
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
