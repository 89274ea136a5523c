package hook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/contracts"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/email"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/metrics"
	ctxutil "github.com/kentekart/marketplace/services/auth-email-hook/internal/pkg/context"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/security"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/tracing"
)

type Verifier interface {
	Verify(body []byte, h http.Header) (security.VerifiedPayload, error)
}

// Sender delivers one rendered message. A provider rejection is a
// DispatchResult with Success=false and a nil error; a non-nil error means
// the provider could not be reached.
type Sender interface {
	Send(ctx context.Context, msg domain.EmailMessage) (domain.DispatchResult, error)
	Name() string
}

type IdempotencyStore interface {
	// Seen returns true if the webhook id was already dispatched.
	Seen(ctx context.Context, id string) (bool, error)

	// MarkSent records the webhook id for ttl.
	MarkSent(ctx context.Context, id string, ttl time.Duration) error
}

type Config struct {
	From           string
	IdempotencyTTL time.Duration
}

// Service runs one hook delivery: verify, parse, render, send. It holds no
// per-request state.
type Service struct {
	verifier Verifier
	renderer *email.Renderer
	sender   Sender
	idem     IdempotencyStore // nil => disabled
	cfg      Config
	lg       zerolog.Logger
}

func NewService(v Verifier, r *email.Renderer, s Sender, idem IdempotencyStore, cfg Config, lg zerolog.Logger) *Service {
	return &Service{
		verifier: v,
		renderer: r,
		sender:   s,
		idem:     idem,
		cfg:      cfg,
		lg:       lg.With().Str("component", "hook_service").Logger(),
	}
}

// Handle processes one delivery. Every failure is returned as *domain.Error;
// the first failing stage short-circuits the rest.
func (s *Service) Handle(ctx context.Context, body []byte, h http.Header) (res domain.DispatchResult, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "auth_hook.handle")
	outcome := "success"
	defer func() {
		if err != nil {
			outcome = string(domain.KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("hook.outcome", outcome))
		span.End()
		metrics.RecordHookRequest(outcome, time.Since(start))
	}()

	lg := s.lg.With().Str("request_id", ctxutil.GetRequestID(ctx)).Logger()

	payload, err := s.verifier.Verify(body, h)
	if err != nil {
		derr := signatureError(err)
		lg.Warn().Str("code", derr.Code).Msg("hook signature rejected")
		return domain.DispatchResult{}, derr
	}
	lg = lg.With().Str("webhook_id", payload.ID()).Logger()

	ev, err := contracts.ParseAuthEvent(payload)
	if err != nil {
		lg.Warn().Err(err).Msg("hook payload rejected")
		return domain.DispatchResult{}, err
	}

	action := ev.Kind.String()
	lg = lg.With().Str("action", action).Str("to", ev.UserEmail).Logger()
	span.SetAttributes(
		attribute.String("hook.action", action),
		attribute.String("hook.action_type", ev.ActionType),
	)

	if s.alreadySent(ctx, lg, payload.ID()) {
		outcome = "duplicate"
		metrics.RecordIdempotencyHit()
		lg.Info().Msg("idempotent skip (already sent)")
		return domain.DispatchResult{Success: true}, nil
	}

	msg, err := s.renderer.Compose(ev, s.cfg.From)
	if err != nil {
		lg.Error().Err(err).Msg("render failed")
		return domain.DispatchResult{}, domain.ErrRenderFailed(err)
	}

	res, err = s.send(ctx, msg)
	if err != nil {
		metrics.RecordEmailFailed(action, s.sender.Name(), string(domain.KindTransport))
		lg.Error().Err(err).Str("provider", s.sender.Name()).Msg("email provider unreachable")
		return res, domain.ErrTransport(err)
	}
	if !res.Success {
		detail := domain.ErrorDetail{}
		if res.Error != nil {
			detail = *res.Error
		}
		metrics.RecordEmailFailed(action, s.sender.Name(), string(domain.KindProvider))
		lg.Warn().
			Int("provider_status", detail.Code).
			Str("provider_error", detail.Name).
			Str("provider", s.sender.Name()).
			Msg("email provider rejected message")
		return res, domain.ErrProviderRejected(detail)
	}

	metrics.RecordEmailSent(action, s.sender.Name())
	s.markSent(ctx, lg, payload.ID())

	lg.Info().Str("provider", s.sender.Name()).Str("message_id", res.ProviderMessageID).Msg("auth email sent")
	return res, nil
}

func (s *Service) send(ctx context.Context, msg domain.EmailMessage) (domain.DispatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "auth_hook.send")
	defer span.End()
	span.SetAttributes(attribute.String("email.provider", s.sender.Name()))

	start := time.Now()
	res, err := s.sender.Send(ctx, msg)
	metrics.ObserveSend(s.sender.Name(), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
	}
	return res, err
}

// alreadySent fails open: a store error is logged and the email goes out.
func (s *Service) alreadySent(ctx context.Context, lg zerolog.Logger, id string) bool {
	if s.idem == nil {
		return false
	}
	seen, err := s.idem.Seen(ctx, id)
	if err != nil {
		lg.Warn().Err(err).Msg("idempotency lookup failed, sending anyway")
		return false
	}
	return seen
}

func (s *Service) markSent(ctx context.Context, lg zerolog.Logger, id string) {
	if s.idem == nil {
		return
	}
	if err := s.idem.MarkSent(ctx, id, s.cfg.IdempotencyTTL); err != nil {
		lg.Warn().Err(err).Msg("idempotency mark failed (send already succeeded)")
	}
}

func signatureError(err error) *domain.Error {
	switch {
	case errors.Is(err, security.ErrTimestampExpired):
		return domain.ErrUnverified("timestamp_expired", err)
	case errors.Is(err, security.ErrMalformedHeaders):
		return domain.ErrUnverified("malformed_headers", err)
	default:
		return domain.ErrUnverified("signature_invalid", err)
	}
}
