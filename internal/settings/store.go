package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/storage"
)

const (
	themeDark  = "dark"
	themeLight = "light"
)

// Store holds the current AppSettings and the theme preference. Save replaces
// the settings wholesale; values are not validated here.
type Store struct {
	mu        sync.Mutex
	kv        storage.KV
	logger    zerolog.Logger
	current   model.AppSettings
	dark      bool
	darkIsSet bool
	darkBase  bool
}

// persisted mirrors AppSettings with every field optional so a blob written
// by an older version only overrides the keys it actually carries.
type persisted struct {
	APIKey              *string         `json:"apiKey"`
	APIBaseURL          *string         `json:"apiBaseUrl"`
	WallpaperPath       *string         `json:"wallpaperPath"`
	WallpaperResolution *string         `json:"wallpaperResolution"`
	WallpaperStyle      *persistedStyle `json:"wallpaperStyle"`
}

type persistedStyle struct {
	TitleFontSize  *float64 `json:"titleFontSize"`
	TaskFontSize   *float64 `json:"taskFontSize"`
	PaddingPercent *float64 `json:"paddingPercent"`
	LineGap        *float64 `json:"lineGap"`
}

// New returns a store holding defaults. darkDefault applies until a theme
// is persisted.
func New(kv storage.KV, logger zerolog.Logger, darkDefault bool) *Store {
	return &Store{
		kv:       kv,
		logger:   logger.With().Str("component", "settings").Logger(),
		current:  model.DefaultSettings(),
		dark:     darkDefault,
		darkBase: darkDefault,
	}
}

// Load reads persisted settings and theme over the compiled-in defaults. A
// corrupt blob is logged and the defaults are kept.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = model.DefaultSettings()
	raw, err := s.kv.Get(ctx, storage.KeySettings)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("settings: load: %w", err)
	default:
		merged, decodeErr := Merge(model.DefaultSettings(), []byte(raw))
		if decodeErr != nil {
			s.logger.Warn().Err(decodeErr).Msg("ignoring corrupt persisted settings")
		} else {
			s.current = merged
		}
	}

	theme, err := s.kv.Get(ctx, storage.KeyTheme)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.dark, s.darkIsSet = s.darkBase, false
	case err != nil:
		return fmt.Errorf("settings: load theme: %w", err)
	default:
		s.dark, s.darkIsSet = theme == themeDark, true
	}
	return nil
}

// Merge decodes raw over base. Top-level keys replace base values and the
// wallpaperStyle object is merged key by key.
func Merge(base model.AppSettings, raw []byte) (model.AppSettings, error) {
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return base, err
	}
	out := base
	if p.APIKey != nil {
		out.APIKey = *p.APIKey
	}
	if p.APIBaseURL != nil {
		out.APIBaseURL = *p.APIBaseURL
	}
	if p.WallpaperPath != nil {
		out.WallpaperPath = *p.WallpaperPath
	}
	if p.WallpaperResolution != nil {
		out.WallpaperResolution = *p.WallpaperResolution
	}
	if st := p.WallpaperStyle; st != nil {
		if st.TitleFontSize != nil {
			out.WallpaperStyle.TitleFontSize = *st.TitleFontSize
		}
		if st.TaskFontSize != nil {
			out.WallpaperStyle.TaskFontSize = *st.TaskFontSize
		}
		if st.PaddingPercent != nil {
			out.WallpaperStyle.PaddingPercent = *st.PaddingPercent
		}
		if st.LineGap != nil {
			out.WallpaperStyle.LineGap = *st.LineGap
		}
	}
	return out, nil
}

func (s *Store) Get() model.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save replaces the current settings and persists them. The in-memory value
// is updated even when the write fails.
func (s *Store) Save(ctx context.Context, next model.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeySettings, string(payload)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist settings")
		return fmt.Errorf("settings: persist: %w", err)
	}
	s.logger.Info().Str("resolution", next.WallpaperResolution).Bool("api_key_set", next.APIKey != "").Msg("saved settings")
	return nil
}

func (s *Store) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// ThemeName reports "dark" or "light" and whether it came from storage.
func (s *Store) ThemeName() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dark {
		return themeDark, s.darkIsSet
	}
	return themeLight, s.darkIsSet
}

func (s *Store) SetTheme(ctx context.Context, dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark, s.darkIsSet = dark, true
	value := themeLight
	if dark {
		value = themeDark
	}
	if err := s.kv.Put(ctx, storage.KeyTheme, value); err != nil {
		return fmt.Errorf("settings: persist theme: %w", err)
	}
	return nil
}
