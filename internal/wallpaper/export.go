package wallpaper

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/layout"
)

// ResetNotice is shown when the user asks to reset the desktop wallpaper.
const ResetNotice = "eisen only writes image files; it cannot change your desktop wallpaper. " +
	"To restore your previous wallpaper, pick it again in your system settings."

func FileName(now time.Time) string {
	return fmt.Sprintf("eisenhower-matrix-%s.png", now.Format(time.DateOnly))
}

// Exporter writes rasterized frames into Dir.
type Exporter struct {
	Dir    string
	Now    func() time.Time
	Logger zerolog.Logger
}

func NewExporter(dir string, logger zerolog.Logger) *Exporter {
	return &Exporter{
		Dir:    dir,
		Now:    time.Now,
		Logger: logger.With().Str("component", "wallpaper").Logger(),
	}
}

// Export rasterizes frame and writes it as PNG. The file appears under its
// final name only once fully written.
func (e *Exporter) Export(ctx context.Context, frame layout.Frame) (string, error) {
	img, err := Rasterize(frame)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("wallpaper: create export dir: %w", err)
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	path := filepath.Join(dir, FileName(now()))

	tmp, err := os.CreateTemp(dir, ".eisenhower-matrix-*.png.tmp")
	if err != nil {
		return "", fmt.Errorf("wallpaper: create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("wallpaper: encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("wallpaper: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		cleanup()
		return "", fmt.Errorf("wallpaper: write %s: %w", path, err)
	}
	e.Logger.Info().Str("path", path).Int("width", frame.Width).Int("height", frame.Height).Msg("exported wallpaper")
	return path, nil
}
