package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/logger"
)

const (
	SenderResend = "resend"
	SenderSMTP   = "smtp"
	SenderFake   = "fake"
)

type Config struct {
	Env string `env:"APP_ENV" envDefault:"dev"`

	Log logger.Config

	// Hook endpoint
	WebAddr            string        `env:"HOOK_WEB_ADDR" envDefault:":8090"`
	HookSecret         string        `env:"SEND_AUTH_EMAIL_HOOK_SECRET"`
	TimestampTolerance time.Duration `env:"HOOK_TIMESTAMP_TOLERANCE" envDefault:"5m"`
	MaxBodyBytes       int64         `env:"HOOK_MAX_BODY_BYTES" envDefault:"1048576"`
	ShutdownWait       time.Duration `env:"SHUTDOWN_WAIT" envDefault:"10s"`

	// Email delivery
	EmailSender     string        `env:"EMAIL_SENDER" envDefault:"resend"`
	FromAddress     string        `env:"RESEND_FROM_ADDRESS" envDefault:"KenteKart <onboarding@resend.dev>"`
	ResendAPIKey    string        `env:"RESEND_API_KEY"`
	ResendBaseURL   string        `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`

	// Base of the identity provider; confirmation links go to <base>/auth/v1/verify.
	VerifyBaseURL string `env:"SUPABASE_URL"`

	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
	SMTPInsecure bool          `env:"SMTP_INSECURE"`

	// Redis (webhook-id idempotency)
	RedisEnabled   bool          `env:"REDIS_ENABLED"`
	RedisAddr      string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"HOOK_IDEMPOTENCY_TTL" envDefault:"24h"`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"dev"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse builds and validates a Config. Tests pass opts.Environment to avoid
// touching the process environment.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.HookSecret = strings.TrimSpace(c.HookSecret)
	if c.HookSecret == "" {
		return fmt.Errorf("missing required env var: SEND_AUTH_EMAIL_HOOK_SECRET")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("HOOK_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}
	if c.SMTPTimeout <= 0 {
		return fmt.Errorf("SMTP_TIMEOUT must be positive, got %s", c.SMTPTimeout)
	}

	c.EmailSender = strings.ToLower(strings.TrimSpace(c.EmailSender))
	switch c.EmailSender {
	case SenderResend:
		if strings.TrimSpace(c.ResendAPIKey) == "" {
			return fmt.Errorf("resend sender selected but missing RESEND_API_KEY")
		}
	case SenderSMTP:
		if strings.TrimSpace(c.SMTPHost) == "" {
			return fmt.Errorf("smtp sender selected but missing SMTP_HOST")
		}
	case SenderFake:
	default:
		return fmt.Errorf("unknown EMAIL_SENDER %q (want resend, smtp or fake)", c.EmailSender)
	}

	c.VerifyBaseURL = strings.TrimRight(strings.TrimSpace(c.VerifyBaseURL), "/")

	// Guard: prevent the classic "REDIS_ADDR=localhost:6379 OTHER=..." parsing issue
	if strings.Contains(c.RedisAddr, " ") {
		return fmt.Errorf("bad REDIS_ADDR (contains spaces): %q", c.RedisAddr)
	}
	return nil
}
