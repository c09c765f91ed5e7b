package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Plugins.Dir != "plugins" {
		t.Errorf("Plugins.Dir = %q, want plugins", cfg.Plugins.Dir)
	}
	if !cfg.Plugins.Watch {
		t.Error("Plugins.Watch = false, want true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Plugins.Dir != "plugins" {
		t.Errorf("Plugins.Dir = %q, want default", cfg.Plugins.Dir)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `
[plugins]
dir = "/opt/hypril/plugins"
disabled = ["noisy", "legacy"]
watch = false

[log]
level = "debug"
file = "/tmp/hypril.log"
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plugins.Dir != "/opt/hypril/plugins" {
		t.Errorf("Plugins.Dir = %q", cfg.Plugins.Dir)
	}
	if len(cfg.Plugins.Disabled) != 2 || cfg.Plugins.Disabled[1] != "legacy" {
		t.Errorf("Plugins.Disabled = %v", cfg.Plugins.Disabled)
	}
	if cfg.Plugins.Watch {
		t.Error("Plugins.Watch = true, want false")
	}
	if cfg.Log.File != "/tmp/hypril.log" {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}

	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v, want debug", level, err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[plugins\ndir ="), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed TOML succeeded, want error")
	}
}

func TestLoadBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an unknown log level")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"HYPRIL_PLUGINS_DIR":      "/env/plugins",
		"HYPRIL_PLUGINS_DISABLED": "a, b ,,c",
		"HYPRIL_PLUGINS_WATCH":    "false",
		"HYPRIL_LOG_LEVEL":        "warn",
	}
	applyEnv(&cfg, func(k string) string { return env[k] })

	if cfg.Plugins.Dir != "/env/plugins" {
		t.Errorf("Plugins.Dir = %q", cfg.Plugins.Dir)
	}
	want := []string{"a", "b", "c"}
	if len(cfg.Plugins.Disabled) != len(want) {
		t.Fatalf("Plugins.Disabled = %v, want %v", cfg.Plugins.Disabled, want)
	}
	for i := range want {
		if cfg.Plugins.Disabled[i] != want[i] {
			t.Errorf("Disabled[%d] = %q, want %q", i, cfg.Plugins.Disabled[i], want[i])
		}
	}
	if cfg.Plugins.Watch {
		t.Error("Plugins.Watch = true, want false")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestApplyEnvEmptyLeavesValues(t *testing.T) {
	cfg := Default()
	applyEnv(&cfg, func(string) string { return "" })

	if cfg.Plugins.Dir != "plugins" || cfg.Log.Level != "info" {
		t.Errorf("empty environment changed defaults: %+v", cfg)
	}
}

func TestSlogLevels(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"ERROR":   slog.LevelError,
	}
	for name, want := range cases {
		cfg := Config{Log: LogConfig{Level: name}}
		got, err := cfg.SlogLevel()
		if err != nil || got != want {
			t.Errorf("SlogLevel(%q) = %v, %v, want %v", name, got, err, want)
		}
	}
}
