package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config mirrors the LOG_* variables.
type Config struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"console"` // "json" or "console"
	TimeFormat string `env:"LOG_TIME_FORMAT"`
	Color      bool   `env:"LOG_COLOR" envDefault:"true"`
	Caller     bool   `env:"LOG_CALLER"`
}

var Logger zerolog.Logger

func Init(cfg Config) zerolog.Logger {
	return InitWithWriter(os.Stdout, cfg)
}

func InitWithWriter(w io.Writer, cfg Config) zerolog.Logger {
	// ---- level ----
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	// ---- time format ----
	timeFormat := strings.TrimSpace(cfg.TimeFormat)
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	// ---- base ----
	var base zerolog.Logger
	if strings.TrimSpace(cfg.Format) == "json" {
		base = zerolog.New(w)
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormat,
			NoColor:    !cfg.Color,
		})
	}

	// ---- enrich ----
	l := base.With().Timestamp().Str("service", "auth-email-hook").Logger().Level(level)
	if cfg.Caller {
		l = l.With().Caller().Logger()
	}

	Logger = l
	zlog.Logger = Logger
	return Logger
}
