package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	Insecure bool
}

// SMTPSender is the alternative gateway for environments without a Resend
// account (local Mailpit, a relay).
type SMTPSender struct {
	lg zerolog.Logger

	host     string
	port     int
	user     string
	pass     string
	insecure bool

	timeout time.Duration
}

func NewSMTPSender(cfg SMTPConfig, lg zerolog.Logger) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	return &SMTPSender{
		lg:       lg.With().Str("component", "smtp_sender").Logger(),
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.Username,
		pass:     cfg.Password,
		insecure: cfg.Insecure,
		timeout:  sendTimeout(cfg.Timeout),
	}, nil
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg domain.EmailMessage) (domain.DispatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	m, rejected := buildMessage(msg)
	if rejected != nil {
		return *rejected, nil
	}

	c, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return domain.DispatchResult{}, &domain.TransportError{Provider: s.Name(), Op: "client init", Err: err}
	}

	s.lg.Debug().Str("host", s.host).Int("port", s.port).Str("subject", msg.Subject).Msg("attempting smtp send")
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		res, terr := classifySMTPError(err)
		if terr != nil {
			s.lg.Error().Err(err).Msg("smtp send failed")
			return domain.DispatchResult{}, &domain.TransportError{Provider: s.Name(), Op: "send", Err: terr}
		}
		s.lg.Warn().Err(err).Msg("smtp server rejected message")
		return res, nil
	}

	// SMTP hands back no message id; the Message-ID header we generated
	// stands in for it.
	id := ""
	if v := m.GetGenHeader(mail.HeaderMessageID); len(v) > 0 {
		id = v[0]
	}
	return domain.Delivered(id), nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	tlsPolicy := mail.TLSMandatory
	if s.insecure {
		tlsPolicy = mail.TLSOpportunistic
	}

	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(tlsPolicy),
		mail.WithTimeout(s.timeout),
	}
	if s.user != "" {
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(s.user), mail.WithPassword(s.pass))
	}
	return opts
}

// buildMessage returns a rejection when an address does not parse; that is
// the caller's data, not a delivery fault.
func buildMessage(msg domain.EmailMessage) (*mail.Msg, *domain.DispatchResult) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		r := domain.Rejected(0, "invalid_from_address", err.Error())
		return nil, &r
	}
	if err := m.To(msg.To); err != nil {
		r := domain.Rejected(0, "invalid_to_address", err.Error())
		return nil, &r
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// classifySMTPError splits server rejections (auth, mailbox, policy) from
// connection trouble. Exactly one return value is set.
func classifySMTPError(err error) (domain.DispatchResult, error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.DispatchResult{}, err
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "535", "5.7.8", "authentication", "Username and Password not accepted"):
		return domain.Rejected(535, "smtp_auth_failed", msg), nil
	case containsAny(msg, "550", "551", "553", "554", "5.1.1"):
		return domain.Rejected(550, "smtp_rejected", msg), nil
	default:
		return domain.DispatchResult{}, err
	}
}

func containsAny(s string, subs ...string) bool {
	for _, x := range subs {
		if x != "" && strings.Contains(s, x) {
			return true
		}
	}
	return false
}
