package email

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

const verifyPath = "/auth/v1/verify"

// Renderer builds message bodies. It holds only read-only config and is
// safe for concurrent use.
type Renderer struct {
	verifyBaseURL string
}

// NewRenderer takes the identity provider's base URL; confirmation links
// point at <base>/auth/v1/verify.
func NewRenderer(verifyBaseURL string) *Renderer {
	return &Renderer{verifyBaseURL: strings.TrimRight(strings.TrimSpace(verifyBaseURL), "/")}
}

// ConfirmationURL builds the verify link. Query values are encoded, so a
// redirect target carrying its own query string stays intact.
func (r *Renderer) ConfirmationURL(ev domain.AuthEvent) string {
	q := url.Values{}
	q.Set("token", ev.TokenHash)
	q.Set("type", ev.ActionType)
	q.Set("redirect_to", ev.RedirectTo)
	return r.verifyBaseURL + verifyPath + "?" + q.Encode()
}

// Render produces the HTML body for kind. Same inputs give the same bytes.
func (r *Renderer) Render(kind TemplateKind, ev domain.AuthEvent) (string, error) {
	data := copyFor(kind, ev)
	data.URL = r.ConfirmationURL(ev)
	data.Code = ev.Token

	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, kind.file(), data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", kind, err)
	}
	return buf.String(), nil
}

// Compose selects and renders the message for ev.
func (r *Renderer) Compose(ev domain.AuthEvent, from string) (domain.EmailMessage, error) {
	sel := Select(ev.Kind)
	body, err := r.Render(sel.Template, ev)
	if err != nil {
		return domain.EmailMessage{}, err
	}
	return domain.EmailMessage{
		From:    from,
		To:      ev.UserEmail,
		Subject: sel.Subject,
		HTML:    body,
	}, nil
}
