package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sandeepkv93/eisen/internal/app"
	"github.com/sandeepkv93/eisen/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr, openServices)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "eisen failed: %v\n", err)
		os.Exit(1)
	}
}

// openServices loads the runtime config, opens the log and the database and
// returns a release func for both.
func openServices(ctx context.Context) (*app.Services, func(), error) {
	cfg := config.Load()
	logger, logCloser, err := app.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.Open(ctx, cfg, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	return svc, func() {
		if err := svc.Close(); err != nil {
			logger.Warn().Err(err).Msg("close services")
		}
		_ = logCloser.Close()
	}, nil
}
