package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.Env != EnvProd || cfg.LogLevel != "info" || cfg.ExportDir != "." {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Model != "gemini-2.5-flash" || cfg.ClassifyTimeout != 20*time.Second {
		t.Fatalf("unexpected classifier defaults: %+v", cfg)
	}
	if cfg.DarkDefault() {
		t.Fatal("expected light theme by default")
	}
	if filepath.Base(cfg.DatabasePath()) != "eisen.db" || filepath.Base(cfg.LogPath()) != "eisen.log" {
		t.Fatalf("unexpected derived paths: db=%q log=%q", cfg.DatabasePath(), cfg.LogPath())
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EISEN_ENV", "LOCAL")
	t.Setenv("EISEN_DATA_DIR", dir)
	t.Setenv("EISEN_EXPORT_DIR", filepath.Join(dir, "out"))
	t.Setenv("EISEN_LOG_LEVEL", "debug")
	t.Setenv("EISEN_MODEL", "gemini-2.0-flash")
	t.Setenv("EISEN_CLASSIFY_TIMEOUT", "5s")
	t.Setenv("EISEN_THEME", "dark")
	t.Setenv("EISEN_API_KEY", "k-primary")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.Env != EnvLocal || cfg.LogLevel != "debug" || !cfg.DarkDefault() {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.DatabasePath() != filepath.Join(dir, "eisen.db") {
		t.Fatalf("unexpected db path: %q", cfg.DatabasePath())
	}
	if cfg.ExportDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected export dir: %q", cfg.ExportDir)
	}
	if cfg.Model != "gemini-2.0-flash" || cfg.ClassifyTimeout != 5*time.Second {
		t.Fatalf("unexpected classifier overrides: %+v", cfg)
	}
	if cfg.APIKey != "k-primary" {
		t.Fatalf("unexpected api key: %q", cfg.APIKey)
	}
}

func TestRuntimeConfigAPIKeyFallbacks(t *testing.T) {
	t.Setenv("EISEN_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("EISEN_API_KEY")
	os.Unsetenv("GEMINI_API_KEY")
	t.Setenv("API_KEY", "k-generic")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.APIKey != "k-generic" {
		t.Fatalf("expected API_KEY fallback, got %q", cfg.APIKey)
	}
}

func TestRuntimeConfigBadDurationKeepsBase(t *testing.T) {
	t.Setenv("EISEN_CLASSIFY_TIMEOUT", "soon")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.ClassifyTimeout != 20*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.ClassifyTimeout)
	}
}

func TestRuntimeConfigNormalizesUnknownValues(t *testing.T) {
	t.Setenv("EISEN_ENV", "staging")
	t.Setenv("EISEN_THEME", "solarized")
	t.Setenv("EISEN_DB_PATH", "/tmp/custom.db")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.Env != EnvProd || cfg.DarkDefault() {
		t.Fatalf("unknown values should normalize: %+v", cfg)
	}
	if cfg.DatabasePath() != "/tmp/custom.db" {
		t.Fatalf("explicit db path ignored: %q", cfg.DatabasePath())
	}
}
