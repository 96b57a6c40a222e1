package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/dsimp/internal/config"
)

// loadConfig reads --config, or the nearest dsimp.yaml, or falls back to
// the defaults, then applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		if path, err = config.FindConfig(wd); err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if logLevel != "" {
		if !slices.Contains(config.LogLevels, logLevel) {
			return nil, fmt.Errorf("--log-level %q is not one of %v", logLevel, config.LogLevels)
		}
		cfg.LogLevel = logLevel
	}
	if dbPath != "" {
		// Relative to the working directory, not to the config file.
		abs, err := filepath.Abs(dbPath)
		if err != nil {
			return nil, fmt.Errorf("resolving --db: %w", err)
		}
		cfg.Database = abs
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// useColor follows the NO_COLOR convention and only colours terminals.
func useColor() bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
