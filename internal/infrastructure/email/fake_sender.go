package email

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

// FakeSender is a development sender. It logs the envelope, keeps the
// message in memory and always succeeds.
type FakeSender struct {
	lg zerolog.Logger

	mu   sync.Mutex
	sent []domain.EmailMessage
}

func NewFakeSender(lg zerolog.Logger) *FakeSender {
	return &FakeSender{
		lg: lg.With().Str("component", "fake_sender").Logger(),
	}
}

func (s *FakeSender) Name() string { return "fake" }

func (s *FakeSender) Send(ctx context.Context, msg domain.EmailMessage) (domain.DispatchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.DispatchResult{}, &domain.TransportError{Provider: s.Name(), Op: "send", Err: err}
	}

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	id := uuid.NewString()
	s.lg.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("message_id", id).
		Msg("FAKE send auth email")
	return domain.Delivered(id), nil
}

// Sent returns a copy of everything sent so far.
func (s *FakeSender) Sent() []domain.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.EmailMessage(nil), s.sent...)
}
