package response

import (
	"errors"
	"net/http"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

type HookErrorBody struct {
	Error HookErrorPayload `json:"error"`
}

// HookErrorPayload is what the identity provider reads back from a failed
// hook. HTTPCode is omitted when nothing upstream reported one.
type HookErrorPayload struct {
	HTTPCode *int   `json:"http_code,omitempty"`
	Message  string `json:"message"`
}

// WriteHookError converts a pipeline error into the hook error envelope.
// Non-domain errors are reported as internal without leaking details.
func WriteHookError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	payload := HookErrorPayload{Message: "internal error"}

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		payload.Message = de.Message
		if de.HTTPCode != 0 {
			code := de.HTTPCode
			payload.HTTPCode = &code
		}
	}

	WriteJSON(w, status, HookErrorBody{Error: payload})
}

// statusFromKind maps domain error kinds to HTTP status codes. The identity
// provider treats any non-2xx as a failed hook, so every pipeline failure
// shares 401.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindMethodNotAllowed:
		return http.StatusBadRequest
	default:
		return http.StatusUnauthorized
	}
}
