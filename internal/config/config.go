// Package config resolves how the contacts CLI finds and treats its store.
//
// Values are layered: defaults, then a config file (YAML or CUE), then
// CONTACTS_* environment variables, then command-line flags. The result is
// checked against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Environment variables read by ApplyEnv.
const (
	EnvConfig     = "CONTACTS_CONFIG"
	EnvBackend    = "CONTACTS_BACKEND"
	EnvPath       = "CONTACTS_PATH"
	EnvDuplicates = "CONTACTS_DUPLICATES"
	EnvStrict     = "CONTACTS_STRICT"
)

// Default store paths per backend.
const (
	DefaultFilePath   = "contacts.dat"
	DefaultSQLitePath = "contacts.db"
)

// Config selects and tunes the directory's store.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	Path       string `json:"path" yaml:"path"`
	Duplicates string `json:"duplicates" yaml:"duplicates"`
	Strict     bool   `json:"strict" yaml:"strict"`
}

// fileConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type fileConfig struct {
	Backend    *string `json:"backend,omitempty" yaml:"backend"`
	Path       *string `json:"path,omitempty" yaml:"path"`
	Duplicates *string `json:"duplicates,omitempty" yaml:"duplicates"`
	Strict     *bool   `json:"strict,omitempty" yaml:"strict"`
}

// Default returns the built-in configuration. Path is left empty and
// filled per backend by Resolve.
func Default() Config {
	return Config{
		Backend:    "file",
		Duplicates: "reject",
	}
}

// Load layers defaults, the config file and the environment. path names
// the config file; when empty, CONTACTS_CONFIG is consulted, and with
// neither no file is read. getenv may be nil to use os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	if path == "" {
		path = getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeFile overlays the settings found in a .yaml, .yml or .cue file.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		fc, err = decodeYAML(data)
	case ".cue":
		fc, err = decodeCUE(data, path)
	default:
		return fmt.Errorf("unsupported config file extension %q: use .yaml, .yml or .cue", ext)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	c.merge(fc)
	return nil
}

func (c *Config) merge(fc fileConfig) {
	if fc.Backend != nil {
		c.Backend = *fc.Backend
	}
	if fc.Path != nil {
		c.Path = *fc.Path
	}
	if fc.Duplicates != nil {
		c.Duplicates = *fc.Duplicates
	}
	if fc.Strict != nil {
		c.Strict = *fc.Strict
	}
}

// decodeYAML parses with strict field validation (catches typos like
// "backnd:").
func decodeYAML(data []byte) (fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return fc, nil
}

// decodeCUE compiles the file and checks it against #Config before
// decoding; #Config is closed, so unknown fields are rejected.
func decodeCUE(data []byte, filename string) (fileConfig, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return fileConfig{}, fmt.Errorf("failed to compile CUE: %s", cueDetails(err))
	}

	def, err := schemaDef(ctx)
	if err != nil {
		return fileConfig{}, err
	}
	if err := def.Unify(v).Validate(); err != nil {
		return fileConfig{}, fmt.Errorf("schema violation: %s", cueDetails(err))
	}

	var fc fileConfig
	if err := v.Decode(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("failed to decode CUE: %s", cueDetails(err))
	}
	return fc, nil
}

// ApplyEnv overlays CONTACTS_* variables that are set and non-empty.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvBackend)); v != "" {
		c.Backend = v
	}
	if v := strings.TrimSpace(getenv(EnvPath)); v != "" {
		c.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvDuplicates)); v != "" {
		c.Duplicates = v
	}
	if v := strings.TrimSpace(getenv(EnvStrict)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvStrict, v, err)
		}
		c.Strict = b
	}
	return nil
}

// Resolve normalizes the configuration, fills the backend's default path
// and validates the result.
func (c *Config) Resolve() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Duplicates = strings.ToLower(strings.TrimSpace(c.Duplicates))
	if c.Path == "" {
		switch c.Backend {
		case "file":
			c.Path = DefaultFilePath
		case "sqlite":
			c.Path = DefaultSQLitePath
		}
	}
	return c.Validate()
}

// Validate checks the configuration against the #Config schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	def, err := schemaDef(ctx)
	if err != nil {
		return err
	}

	v := ctx.Encode(c)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", cueDetails(err))
	}
	return nil
}

func schemaDef(ctx *cue.Context) (cue.Value, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile config schema: %w", err)
	}
	return schema.LookupPath(cue.ParsePath("#Config")), nil
}

// cueDetails flattens a CUE error list into one line.
func cueDetails(err error) string {
	return strings.Join(strings.Fields(cueerrors.Details(err, nil)), " ")
}
