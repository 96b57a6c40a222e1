package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault verifies the settings used without a config file.
func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultMaxSteps, cfg.MaxSteps)
	assert.Equal(t, DefaultMaxUnfold, cfg.MaxUnfold)
	assert.Equal(t, DefaultVisitInstances, cfg.ShouldVisitInstances())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.TheoryPaths())
	assert.Empty(t, cfg.DatabasePath())
}

// TestParseConfig_Full verifies every field and relative path resolution.
func TestParseConfig_Full(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "algebra.yaml"), []byte("name: algebra\n"), 0o644))

	data := []byte(`
max_steps: 500
visit_instances: false
max_unfold: 20
log_level: debug
theories:
  - algebra.yaml
database: rules.db
`)
	cfg, err := ParseConfig(data, filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.MaxSteps)
	assert.Equal(t, 20, cfg.MaxUnfold)
	assert.False(t, cfg.ShouldVisitInstances(), "explicit false must survive defaults")
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{filepath.Join(dir, "algebra.yaml")}, cfg.TheoryPaths())
	assert.Equal(t, filepath.Join(dir, "rules.db"), cfg.DatabasePath())
}

// TestParseConfig_Invalid verifies validation failures.
func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative steps", "max_steps: -1\n"},
		{"negative unfold", "max_unfold: -5\n"},
		{"unknown level", "log_level: loud\n"},
		{"empty theory", "theories: ['']\n"},
		{"missing theory", "theories: [nowhere.yaml]\n"},
		{"bad yaml", "max_steps: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), filepath.Join(t.TempDir(), ConfigFileName))
			assert.Error(t, err)
		})
	}
}

// TestFindConfig verifies the upward search for dsimp.yaml.
func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Empty(t, path)

	want := filepath.Join(root, "a", "dsimp.yml")
	require.NoError(t, os.WriteFile(want, []byte("max_steps: 7\n"), 0o644))

	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxSteps)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("whatever"))
}
