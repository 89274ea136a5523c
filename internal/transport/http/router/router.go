package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
}

type HookHandler interface {
	SendAuthEmail(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Hook    HookHandler
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Hook == nil {
		return nil, fmt.Errorf("nil Hook handler")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", deps.Health.Healthz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// The hook answers every method itself so that non-POST gets the
	// provider-facing 400 rather than chi's 405.
	r.HandleFunc("/", deps.Hook.SendAuthEmail)

	return r, nil
}
