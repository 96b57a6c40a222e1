// Package config holds the dsimp settings read from dsimp.yaml.
//
// A configuration file looks like:
//
//	max_steps: 10000
//	visit_instances: false
//	max_unfold: 1000
//	log_level: info
//	theories:
//	  - algebra.yaml
//	database: rules.db
//
// Relative paths are resolved against the directory holding the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level dsimp.yaml configuration.
type Config struct {
	// MaxSteps is the step ceiling of one simplification call.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// VisitInstances makes the simplifier rewrite inside instance-implicit
	// arguments. When false they are canonicalized instead.
	// A pointer so an explicit false can be told apart from "not set".
	VisitInstances *bool `yaml:"visit_instances,omitempty"`

	// MaxUnfold bounds the reduction steps spent deciding one definitional
	// equality.
	MaxUnfold int `yaml:"max_unfold,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Theories lists theory files loaded before simplifying.
	Theories []string `yaml:"theories,omitempty"`

	// Database is an optional sqlite lemma store.
	Database string `yaml:"database,omitempty"`

	// dir is the directory containing the config file.
	dir string
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a dsimp.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses dsimp.yaml content from bytes.
// The path argument is used for error messages and to resolve relative paths.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig searches for dsimp.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file, or an empty string if none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%s: max_steps must be positive, got %d", path, c.MaxSteps)
	}
	if c.MaxUnfold <= 0 {
		return fmt.Errorf("%s: max_unfold must be positive, got %d", path, c.MaxUnfold)
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("%s: log_level %q is not one of %v", path, c.LogLevel, LogLevels)
	}
	for i, theory := range c.Theories {
		if theory == "" {
			return fmt.Errorf("%s: theories[%d] is empty", path, i)
		}
		if _, err := os.Stat(c.resolve(theory)); err != nil {
			return fmt.Errorf("%s: theories[%d]: %w", path, i, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.MaxSteps == 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.MaxUnfold == 0 {
		c.MaxUnfold = DefaultMaxUnfold
	}
	if c.VisitInstances == nil {
		v := DefaultVisitInstances
		c.VisitInstances = &v
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// ShouldVisitInstances reports the effective visit_instances setting.
func (c *Config) ShouldVisitInstances() bool {
	return c.VisitInstances == nil || *c.VisitInstances
}

// TheoryPaths returns the theory files with relative paths resolved.
func (c *Config) TheoryPaths() []string {
	out := make([]string, len(c.Theories))
	for i, t := range c.Theories {
		out[i] = c.resolve(t)
	}
	return out
}

// DatabasePath returns the resolved database path, or "" if none is set.
func (c *Config) DatabasePath() string {
	if c.Database == "" {
		return ""
	}
	return c.resolve(c.Database)
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel maps a level name to a slog level, defaulting to Info.
func ParseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
