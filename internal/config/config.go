// Package config loads viewer configuration from a TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// envPrefix is prepended to every recognized override variable.
const envPrefix = "HYPRIL_"

// Config is the viewer configuration. Zero values are filled in by
// Default; Load layers the file and environment on top.
type Config struct {
	// Plugins controls the extension mechanism.
	Plugins PluginConfig `toml:"plugins"`

	// Log controls diagnostics output.
	Log LogConfig `toml:"log"`
}

// PluginConfig configures plugin discovery and loading.
type PluginConfig struct {
	// Dir is the directory scanned for plugin sources at startup.
	Dir string `toml:"dir"`

	// Disabled lists plugin names (filename without extension) that
	// discovery skips.
	Disabled []string `toml:"disabled"`

	// Watch enables the directory watcher that flags plugin set
	// changes after startup.
	Watch bool `toml:"watch"`
}

// LogConfig configures the slog backend.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File is the log destination; empty means stderr.
	File string `toml:"file"`
}

// Default returns the built-in configuration. The plugin directory
// defaults to "plugins" next to the working directory.
func Default() Config {
	return Config{
		Plugins: PluginConfig{
			Dir:   "plugins",
			Watch: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the expected config file location under the
// user's config directory.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "hypril", "config.toml")
}

// Load builds the effective configuration: defaults, then the TOML
// file at path if it exists, then HYPRIL_* environment overrides. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg, os.Getenv)
	return cfg, cfg.validate()
}

// applyEnv overrides fields from the environment. Unset variables
// leave the current value alone.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(envPrefix + "PLUGINS_DIR"); v != "" {
		cfg.Plugins.Dir = v
	}
	if v := getenv(envPrefix + "PLUGINS_DISABLED"); v != "" {
		cfg.Plugins.Disabled = splitList(v)
	}
	if v := getenv(envPrefix + "PLUGINS_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Plugins.Watch = b
		}
	}
	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validate rejects values Load cannot act on.
func (c Config) validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
}
