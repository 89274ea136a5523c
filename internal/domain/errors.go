package domain

import (
	"errors"
	"fmt"
)

// ErrKind groups errors by pipeline stage so the HTTP layer can map them
// consistently.
type ErrKind string

const (
	KindMethodNotAllowed ErrKind = "method_not_allowed" // 400
	KindSignature        ErrKind = "signature"          // 401
	KindSchema           ErrKind = "schema"             // 401
	KindTransport        ErrKind = "transport"          // 401
	KindProvider         ErrKind = "provider"           // 401
	KindInternal         ErrKind = "internal"           // 401
)

// Error is a structured pipeline error.
// - Kind: stage that failed
// - Code: stable machine code
// - Message: safe summary returned to the caller
// - HTTPCode: status reported by the delivery provider, 0 if none
// - Meta: optional details (field, ...)
// - Cause: wrapped internal error for logs
type Error struct {
	Kind     ErrKind
	Code     string
	Message  string
	HTTPCode int
	Meta     map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Request shape
// ----------------------

func ErrMethodNotAllowed(method string) *Error {
	return WithMeta(New(KindMethodNotAllowed, "method_not_allowed", "not allowed"), map[string]string{
		"method": method,
	})
}

func ErrBodyUnreadable(cause error) *Error {
	return Wrap(KindSchema, "body_unreadable", "failed to read request body", cause)
}

// ----------------------
// Signature
// ----------------------

// ErrUnverified reports a failed webhook verification. The verifier's own
// message is safe to return; it never contains the secret.
func ErrUnverified(code string, cause error) *Error {
	return Wrap(KindSignature, code, cause.Error(), cause)
}

// ----------------------
// Payload schema
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindSchema, "invalid_json", "invalid JSON payload", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindSchema, "missing_field", "missing required field: "+field), map[string]string{
		"field": field,
	})
}

// ----------------------
// Delivery
// ----------------------

func ErrTransport(cause error) *Error {
	return Wrap(KindTransport, "transport_error", "email provider unreachable", cause)
}

// ErrProviderRejected forwards the provider's own error payload.
func ErrProviderRejected(detail ErrorDetail) *Error {
	code := detail.Name
	if code == "" {
		code = "provider_error"
	}
	msg := detail.Message
	if msg == "" {
		msg = "email provider rejected the message"
	}
	return &Error{Kind: KindProvider, Code: code, Message: msg, HTTPCode: detail.Code}
}

func ErrRenderFailed(cause error) *Error {
	return Wrap(KindInternal, "render_failed", "failed to render email", cause)
}
