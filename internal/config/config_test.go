package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", envMap(nil))
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, Config{Backend: "file", Path: DefaultFilePath, Duplicates: "reject"}, cfg)
}

func TestResolve_SQLiteDefaultPath(t *testing.T) {
	cfg := Default()
	cfg.Backend = "SQLite"

	require.NoError(t, cfg.Resolve())

	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, DefaultSQLitePath, cfg.Path)
}

func TestResolve_MemoryNeedsNoPath(t *testing.T) {
	cfg := Default()
	cfg.Backend = "memory"

	require.NoError(t, cfg.Resolve())
	assert.Empty(t, cfg.Path)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown backend", Config{Backend: "postgres", Path: "x", Duplicates: "reject"}},
		{"unknown policy", Config{Backend: "file", Path: "x", Duplicates: "merge"}},
		{"empty path", Config{Backend: "sqlite", Path: "", Duplicates: "reject"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "contacts.yaml", "backend: sqlite\npath: /tmp/book.db\nstrict: true\n")

	cfg, err := Load(path, envMap(nil))
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, Config{Backend: "sqlite", Path: "/tmp/book.db", Duplicates: "reject", Strict: true}, cfg)
}

func TestLoad_YAMLPartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, "contacts.yml", "duplicates: overwrite\n")

	cfg, err := Load(path, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "overwrite", cfg.Duplicates)
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	path := writeFile(t, "contacts.yaml", "backnd: sqlite\n")

	_, err := Load(path, envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_CUEFile(t *testing.T) {
	path := writeFile(t, "contacts.cue", `
backend:    "sqlite"
path:       "book.db"
duplicates: "overwrite"
`)

	cfg, err := Load(path, envMap(nil))
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, Config{Backend: "sqlite", Path: "book.db", Duplicates: "overwrite"}, cfg)
}

func TestLoad_CUESchemaViolation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad backend", `backend: "redis"`},
		{"unknown field", `colour: "blue"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "contacts.cue", tt.content)
			_, err := Load(path, envMap(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema violation")
		})
	}
}

func TestLoad_CUESyntaxError(t *testing.T) {
	path := writeFile(t, "contacts.cue", `backend: "file`)

	_, err := Load(path, envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile CUE")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "contacts.toml", `backend = "file"`)

	_, err := Load(path, envMap(nil))
	assert.ErrorContains(t, err, "unsupported config file extension")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "contacts.yaml", "backend: sqlite\npath: file.db\n")

	cfg, err := Load(path, envMap(map[string]string{
		EnvPath:       "env.db",
		EnvDuplicates: "overwrite",
		EnvStrict:     "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "env.db", cfg.Path)
	assert.Equal(t, "overwrite", cfg.Duplicates)
	assert.True(t, cfg.Strict)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeFile(t, "contacts.yaml", "backend: memory\n")

	cfg, err := Load("", envMap(map[string]string{EnvConfig: path}))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Backend)
}

func TestLoad_InvalidStrictEnv(t *testing.T) {
	_, err := Load("", envMap(map[string]string{EnvStrict: "sometimes"}))
	assert.ErrorContains(t, err, EnvStrict)
}
