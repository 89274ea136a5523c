package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/application/hook"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/config"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/email"
	infraemail "github.com/kentekart/marketplace/services/auth-email-hook/internal/infrastructure/email"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/infrastructure/idempotency"
	web "github.com/kentekart/marketplace/services/auth-email-hook/internal/infrastructure/web"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/metrics"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/security"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/tracing"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/transport/http/handlers"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/transport/http/router"
)

type App struct {
	web *web.Server
	cfg *config.Config
	lg  zerolog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, lg zerolog.Logger) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	verifier, err := security.NewWebhookVerifier(cfg.HookSecret, cfg.TimestampTolerance)
	if err != nil {
		return nil, nil, fmt.Errorf("SEND_AUTH_EMAIL_HOOK_SECRET: %w", err)
	}

	sender, err := newSender(cfg, lg)
	if err != nil {
		return nil, nil, err
	}
	lg.Info().Str("sender", sender.Name()).Msg("email sender configured")

	// Redis idempotency store (optional)
	var idem hook.IdempotencyStore = idempotency.NewNoopStore()
	if cfg.RedisEnabled {
		rdb, err := idempotency.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		idem = idempotency.NewRedisStore(rdb, lg)

		lg.Info().
			Str("addr", cfg.RedisAddr).
			Int("db", cfg.RedisDB).
			Dur("ttl", cfg.IdempotencyTTL).
			Msg("redis enabled for webhook idempotency")
	} else {
		lg.Info().Msg("redis disabled (webhook idempotency)")
	}

	tp, err := tracing.InitTracing(ctx, tracing.Config{
		ServiceName:    "auth-email-hook",
		ServiceVersion: cfg.ServiceVersion,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}
	cleanups = append(cleanups, func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			lg.Warn().Err(err).Msg("tracer shutdown failed")
		}
	})

	svc := hook.NewService(
		verifier,
		email.NewRenderer(cfg.VerifyBaseURL),
		sender,
		idem,
		hook.Config{From: cfg.FromAddress, IdempotencyTTL: cfg.IdempotencyTTL},
		lg,
	)

	h, err := router.New(router.Deps{
		Health:  handlers.NewHealthHandler(),
		Hook:    handlers.NewHookHandler(svc, cfg.MaxBodyBytes, lg),
		Metrics: metrics.Handler(),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	app := &App{
		web: web.NewServer(web.Config{Addr: cfg.WebAddr, Handler: h}, lg),
		cfg: cfg,
		lg:  lg,
	}

	final := func() {
		lg.Info().Msg("Performing final resource cleanup...")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
		defer cancel()

		_ = app.Stop(sctx)
		cleanup()
	}
	return app, final, nil
}

func newSender(cfg *config.Config, lg zerolog.Logger) (hook.Sender, error) {
	switch cfg.EmailSender {
	case config.SenderSMTP:
		return infraemail.NewSMTPSender(infraemail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SMTPTimeout,
			Insecure: cfg.SMTPInsecure,
		}, lg)
	case config.SenderFake:
		return infraemail.NewFakeSender(lg), nil
	default:
		return infraemail.NewResendSender(infraemail.ResendConfig{
			APIKey:  cfg.ResendAPIKey,
			BaseURL: cfg.ResendBaseURL,
			Timeout: cfg.ProviderTimeout,
		}, lg)
	}
}

func (a *App) Start(ctx context.Context) error {
	a.lg.Info().Str("env", a.cfg.Env).Msg("Starting auth email hook...")
	return a.web.Start(ctx) // block
}

// Handler is the routed hook handler the server listens with.
func (a *App) Handler() http.Handler { return a.web.Handler() }

func (a *App) Stop(ctx context.Context) error {
	a.lg.Info().Msg("Shutting down auth email hook gracefully...")
	return a.web.Stop(ctx)
}
