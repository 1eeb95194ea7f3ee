package app

import (
	"context"
	"fmt"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/classifier"
	"github.com/sandeepkv93/eisen/internal/config"
	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/settings"
	"github.com/sandeepkv93/eisen/internal/storage"
	"github.com/sandeepkv93/eisen/internal/tasks"
	"github.com/sandeepkv93/eisen/internal/wallpaper"
)

// Services is everything the TUI and the CLI commands operate on.
type Services struct {
	Config     config.RuntimeConfig
	Logger     zerolog.Logger
	Tasks      *tasks.Store
	Settings   *settings.Store
	Classifier *classifier.Client
	Exporter   *wallpaper.Exporter
	Now        func() time.Time

	closers []func() error
}

// Open wires services over the SQLite database named by cfg.
func Open(ctx context.Context, cfg config.RuntimeConfig, logger zerolog.Logger) (*Services, error) {
	kv, err := storage.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	s, err := OpenWith(ctx, cfg, logger, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	s.closers = append(s.closers, kv.Close)
	return s, nil
}

// OpenWith wires services over an existing KV store.
func OpenWith(ctx context.Context, cfg config.RuntimeConfig, logger zerolog.Logger, kv storage.KV) (*Services, error) {
	taskStore, err := tasks.Open(ctx, kv, logger)
	if err != nil {
		return nil, err
	}
	settingsStore := settings.New(kv, logger, cfg.DarkDefault())
	if err := settingsStore.Load(ctx); err != nil {
		return nil, err
	}
	logger.Info().Int("tasks", taskStore.Len()).Str("db", cfg.DatabasePath()).Msg("services ready")
	return &Services{
		Config:   cfg,
		Logger:   logger,
		Tasks:    taskStore,
		Settings: settingsStore,
		Classifier: classifier.New(classifier.Config{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			Timeout: cfg.ClassifyTimeout,
		}, logger),
		Exporter: wallpaper.NewExporter(cfg.ExportDir, logger),
		Now:      time.Now,
	}, nil
}

// Frame builds the wallpaper layout for the current tasks, settings and
// theme, dated today.
func (s *Services) Frame() layout.Frame {
	st := s.Settings.Get()
	return layout.Build(layout.Input{
		Tasks:      s.Tasks.List(),
		Resolution: st.WallpaperResolution,
		Dark:       s.Settings.Dark(),
		Style:      st.WallpaperStyle,
		Date:       s.Now(),
	})
}

func (s *Services) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = fmt.Errorf("app: close: %w", err)
		}
	}
	s.closers = nil
	return first
}
