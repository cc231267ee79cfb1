// Package config loads tool configuration from the optional
// .drupalrefactor.yml file at the workspace root.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mamaar/drupalrefactor/pkg/refactor"
)

const (
	// ConfigFileName is the well-known configuration file looked up at the
	// workspace root when no explicit path is given.
	ConfigFileName = ".drupalrefactor.yml"

	// EnvLogLevel overrides the configured log level when set.
	EnvLogLevel = "DRUPALREFACTOR_LOG"
)

// Config represents the tool configuration
type Config struct {
	// RootAliases lists additional static facade classes recognized beside
	// \Drupal, e.g. custom wrappers that proxy the service container.
	RootAliases []string `yaml:"root_aliases"`

	// ExtraShortcuts maps additional accessor method names to service ids,
	// merged over the built-in shortcut table.
	ExtraShortcuts map[string]string `yaml:"extra_shortcuts"`

	// Exclude lists extra ignore patterns applied by the registry indexer
	// on top of .gitignore.
	Exclude []string `yaml:"exclude"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the
// configuration.
func (c *Config) ApplyEnvironmentOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	for name, id := range c.ExtraShortcuts {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("extra shortcut with empty method name")
		}
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("extra shortcut %q has empty service id", name)
		}
	}

	for _, alias := range c.RootAliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("root alias must not be empty")
		}
	}

	return nil
}

// SlogLevel converts the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// EngineConfig converts the tool configuration into engine options.
func (c *Config) EngineConfig() *refactor.EngineConfig {
	return &refactor.EngineConfig{
		RootAliases:    c.RootAliases,
		ExtraShortcuts: c.ExtraShortcuts,
	}
}
