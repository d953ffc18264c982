package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/picking/knapsack"
)

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	Limit          string        `yaml:"limit"`
	Threshold      int           `yaml:"threshold"`
	Seed           *int64        `yaml:"seed,omitempty"`
	ExactTimeout   time.Duration `yaml:"exact_timeout"`
	MaxGenerations int           `yaml:"max_generations"`
	LogLevel       string        `yaml:"log_level"`
	Hidden         bool          `yaml:"hidden"`
	Workers        int           `yaml:"workers"`
	Format         string        `yaml:"format"`
}

// defaultLimit fits a single-layer DVD with room for the filesystem.
const defaultLimit = "4483MB"

func defaultConfig() Config {
	return Config{
		Limit:          defaultLimit,
		Threshold:      knapsack.DefaultThreshold,
		MaxGenerations: knapsack.DefaultMaxGenerations,
		LogLevel:       "warn",
		Format:         formatText,
	}
}

// defaultConfigPath is $HOME/.picking.yaml, or empty when HOME is unknown.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".picking.yaml")
}

// loadConfig reads path over the defaults. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Threshold < 0:
		return fmt.Errorf("config: %w", knapsack.ErrBadThreshold)
	case c.MaxGenerations < 0:
		return fmt.Errorf("config: %w", knapsack.ErrBadGenerations)
	case c.Workers < 0:
		return fmt.Errorf("config: workers must be non-negative, got %d", c.Workers)
	case c.Format != formatText && c.Format != formatYAML:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}

	return nil
}
