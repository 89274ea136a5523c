package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/metrics"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/transport/http/response"
)

type HookService interface {
	Handle(ctx context.Context, body []byte, h http.Header) (domain.DispatchResult, error)
}

// HookHandler serves the identity provider's "send email" hook.
type HookHandler struct {
	svc     HookService
	maxBody int64
	lg      zerolog.Logger
}

func NewHookHandler(svc HookService, maxBody int64, lg zerolog.Logger) *HookHandler {
	return &HookHandler{
		svc:     svc,
		maxBody: maxBody,
		lg:      lg.With().Str("component", "hook_handler").Logger(),
	}
}

func (h *HookHandler) SendAuthEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := domain.ErrMethodNotAllowed(r.Method)
		metrics.RecordHookRequest(string(err.Kind), 0)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(err.Message))
		return
	}

	// The MAC covers the exact bytes received, so the body is read raw and
	// never re-encoded.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		h.lg.Warn().Err(err).Int64("limit", h.maxBody).Msg("hook body unreadable")
		metrics.RecordHookRequest(string(domain.KindSchema), 0)
		response.WriteHookError(w, domain.ErrBodyUnreadable(err))
		return
	}

	if _, err := h.svc.Handle(r.Context(), body, r.Header); err != nil {
		response.WriteHookError(w, err)
		return
	}
	response.WriteSuccess(w)
}
