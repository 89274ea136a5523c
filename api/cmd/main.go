package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/bootstrap"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/config"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/logger"
)

// runner abstracts the application lifecycle.
// Start launches the service and blocks until it stops.
// Stop performs a graceful shutdown.
type runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// builder constructs the application instance and returns a cleanup function.
type builder func() (runner, func(), error)

// Run bootstraps the app, starts it, waits for a signal or a crash and
// shuts down with a timeout. It returns a process exit code.
func Run(build builder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	app, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Msg("auth-email-hook starting")
		if err := app.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		lg.Error().Err(err).Msg("app crashed")
		return 1
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		lg.Error().Err(err).Msg("graceful stop failed")
		return 1
	}

	lg.Info().Msg("shutdown complete")
	return 0
}

// buildFromBootstrap adapts bootstrap.NewApp to the runner interface.
func buildFromBootstrap(cfg *config.Config, lg zerolog.Logger) builder {
	return func() (runner, func(), error) {
		app, cleanup, err := bootstrap.NewApp(context.Background(), cfg, lg)
		if err != nil {
			return nil, nil, err
		}
		return app, cleanup, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg := zerolog.New(os.Stderr).With().Timestamp().Logger()
		lg.Fatal().Err(err).Msg("config load failed")
	}

	logger.Init(cfg.Log)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	code := Run(buildFromBootstrap(cfg, zlog.Logger), sigCh, zlog.Logger)
	os.Exit(code)
}
