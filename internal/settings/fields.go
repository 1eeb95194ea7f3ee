package settings

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sandeepkv93/eisen/internal/model"
)

var (
	ErrUnknownKey   = errors.New("settings: unknown key")
	ErrInvalidValue = errors.New("settings: invalid value")
)

type field struct {
	get func(model.AppSettings) string
	set func(*model.AppSettings, string) error
}

func stringField(ptr func(*model.AppSettings) *string) field {
	return field{
		get: func(s model.AppSettings) string { return *ptr(&s) },
		set: func(s *model.AppSettings, v string) error {
			*ptr(s) = strings.TrimSpace(v)
			return nil
		},
	}
}

func numberField(ptr func(*model.AppSettings) *float64) field {
	return field{
		get: func(s model.AppSettings) string { return strconv.FormatFloat(*ptr(&s), 'f', -1, 64) },
		set: func(s *model.AppSettings, v string) error {
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
			}
			*ptr(s) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"apiKey":              stringField(func(s *model.AppSettings) *string { return &s.APIKey }),
	"apiBaseUrl":          stringField(func(s *model.AppSettings) *string { return &s.APIBaseURL }),
	"wallpaperPath":       stringField(func(s *model.AppSettings) *string { return &s.WallpaperPath }),
	"wallpaperResolution": stringField(func(s *model.AppSettings) *string { return &s.WallpaperResolution }),
	"titleFontSize":       numberField(func(s *model.AppSettings) *float64 { return &s.WallpaperStyle.TitleFontSize }),
	"taskFontSize":        numberField(func(s *model.AppSettings) *float64 { return &s.WallpaperStyle.TaskFontSize }),
	"paddingPercent":      numberField(func(s *model.AppSettings) *float64 { return &s.WallpaperStyle.PaddingPercent }),
	"lineGap":             numberField(func(s *model.AppSettings) *float64 { return &s.WallpaperStyle.LineGap }),
}

// Keys lists the names accepted by Set, sorted.
func Keys() []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Set returns s with key replaced by value. Keys are matched
// case-insensitively.
func Set(s model.AppSettings, key, value string) (model.AppSettings, error) {
	f, ok := lookup(key)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := f.set(&s, value); err != nil {
		return s, err
	}
	return s, nil
}

func Value(s model.AppSettings, key string) (string, error) {
	f, ok := lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(s), nil
}

func lookup(key string) (field, bool) {
	key = strings.TrimSpace(key)
	if f, ok := fields[key]; ok {
		return f, true
	}
	for name, f := range fields {
		if strings.EqualFold(name, key) {
			return f, true
		}
	}
	return field{}, false
}
