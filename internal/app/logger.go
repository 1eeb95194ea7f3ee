package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/config"
)

// NewLogger builds the application logger. The TUI owns the terminal, so
// prod logs go to the log file; local runs log to stderr in console format.
// The returned closer releases the log file.
func NewLogger(cfg config.RuntimeConfig) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFieldName = "timestamp"
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Env {
	case config.EnvLocal:
		cw := zerolog.NewConsoleWriter()
		cw.TimeFormat = time.DateTime
		cw.Out = os.Stderr
		w = cw
	default:
		path := cfg.LogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("app: create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("app: open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	logger.Debug().Str("env", cfg.Env).Str("level", level.String()).Msg("initialized logger")
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
