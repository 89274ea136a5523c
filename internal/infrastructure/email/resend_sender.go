package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

const (
	DefaultResendBaseURL = "https://api.resend.com"
	DefaultSendTimeout   = 10 * time.Second
	maxResponseBytes     = 64 << 10
)

// sendTimeout bounds every provider call; a non-positive value falls back
// to DefaultSendTimeout.
func sendTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultSendTimeout
	}
	return d
}

type ResendConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// resendEmail is the request body of POST /emails.
type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendAccepted struct {
	ID string `json:"id"`
}

// resendError is the provider's error payload.
type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// ResendSender delivers through the Resend HTTP API. It makes exactly one
// request per Send and never retries.
type ResendSender struct {
	lg      zerolog.Logger
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewResendSender(cfg ResendConfig, lg zerolog.Logger) (*ResendSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultResendBaseURL
	}
	return &ResendSender{
		lg:      lg.With().Str("component", "resend_sender").Logger(),
		apiKey:  cfg.APIKey,
		baseURL: base,
		timeout: sendTimeout(cfg.Timeout),
		client:  &http.Client{Timeout: sendTimeout(cfg.Timeout)},
	}, nil
}

func (s *ResendSender) Name() string { return "resend" }

// Send posts msg. A provider rejection comes back as an unsuccessful
// DispatchResult with a nil error; only an unreachable provider or an
// unreadable answer is returned as *domain.TransportError.
func (s *ResendSender) Send(ctx context.Context, msg domain.EmailMessage) (domain.DispatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(resendEmail{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return domain.DispatchResult{}, s.transportErr("marshal", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return domain.DispatchResult{}, s.transportErr("build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.DispatchResult{}, s.transportErr("post", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.DispatchResult{}, s.transportErr("read response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var ok resendAccepted
		if err := json.Unmarshal(raw, &ok); err != nil || ok.ID == "" {
			return domain.DispatchResult{}, s.transportErr("decode response",
				fmt.Errorf("status %d without message id", resp.StatusCode))
		}
		s.lg.Debug().Str("message_id", ok.ID).Msg("resend accepted message")
		return domain.Delivered(ok.ID), nil
	}

	var perr resendError
	if err := json.Unmarshal(raw, &perr); err != nil || (perr.Name == "" && perr.Message == "") {
		return domain.DispatchResult{}, s.transportErr("decode response",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 256)))
	}
	if perr.StatusCode == 0 {
		perr.StatusCode = resp.StatusCode
	}

	s.lg.Warn().
		Int("status", perr.StatusCode).
		Str("name", perr.Name).
		Str("message", perr.Message).
		Msg("resend rejected message")
	return domain.Rejected(perr.StatusCode, perr.Name, perr.Message), nil
}

func (s *ResendSender) transportErr(op string, err error) error {
	return &domain.TransportError{Provider: s.Name(), Op: op, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
