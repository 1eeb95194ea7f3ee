package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvProd  = "prod"
	EnvLocal = "local"
)

// RuntimeConfig is process-level configuration. User-editable settings live
// in the settings store instead.
type RuntimeConfig struct {
	Env             string        `env:"EISEN_ENV"`
	DataDir         string        `env:"EISEN_DATA_DIR"`
	DBPath          string        `env:"EISEN_DB_PATH"`
	ExportDir       string        `env:"EISEN_EXPORT_DIR"`
	LogFile         string        `env:"EISEN_LOG_FILE"`
	LogLevel        string        `env:"EISEN_LOG_LEVEL"`
	APIKey          string        `env:"EISEN_API_KEY,GEMINI_API_KEY,API_KEY"`
	Model           string        `env:"EISEN_MODEL"`
	ClassifyTimeout time.Duration `env:"EISEN_CLASSIFY_TIMEOUT"`
	Theme           string        `env:"EISEN_THEME"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Env:             EnvProd,
		DataDir:         defaultDataDir(),
		ExportDir:       ".",
		LogLevel:        "info",
		Model:           "gemini-2.5-flash",
		ClassifyTimeout: 20 * time.Second,
		Theme:           "light",
	}
}

// RuntimeConfigFromEnv overlays the environment on base. Unset variables keep
// the base value; a variable that fails to parse discards the whole overlay.
func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if err := cleanenv.UpdateEnv(&cfg); err != nil {
		cfg = base
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != EnvLocal {
		cfg.Env = EnvProd
	}
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme != "dark" {
		cfg.Theme = "light"
	}
	if cfg.ClassifyTimeout <= 0 {
		cfg.ClassifyTimeout = base.ClassifyTimeout
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = base.Model
	}
	return cfg
}

// Load is DefaultRuntimeConfig with the environment applied.
func Load() RuntimeConfig {
	return RuntimeConfigFromEnv(DefaultRuntimeConfig())
}

func (c RuntimeConfig) DarkDefault() bool {
	return c.Theme == "dark"
}

func (c RuntimeConfig) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "eisen.db")
}

func (c RuntimeConfig) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "eisen.log")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "eisen")
	}
	return ".eisen"
}
