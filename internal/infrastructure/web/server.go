package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Addr    string // ":8090"
	Handler http.Handler
}

type Server struct {
	addr string
	lg   zerolog.Logger
	srv  *http.Server
}

func NewServer(cfg Config, lg zerolog.Logger) *Server {
	s := &Server{
		addr: cfg.Addr,
		lg:   lg.With().Str("component", "hook_web").Logger(),
	}
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start blocks until the server stops. Cancelling ctx triggers a shutdown.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.Background())
	}()

	s.lg.Info().Str("addr", s.addr).Msg("auth email hook listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Stop(ctx context.Context) error {
	s.lg.Info().Msg("auth email hook shutting down")
	return s.srv.Shutdown(ctx)
}
