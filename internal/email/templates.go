package email

import (
	"embed"
	"html/template"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

// TemplateKind names a body layout.
type TemplateKind int

const (
	TemplateConfirmation TemplateKind = iota
	TemplateRecovery
)

func (k TemplateKind) String() string {
	if k == TemplateRecovery {
		return "recovery"
	}
	return "confirmation"
}

func (k TemplateKind) file() string {
	return k.String() + ".html"
}

const (
	SubjectSignup       = "Welcome to KenteKart - Confirm your email"
	SubjectEmailChange  = "KenteKart - Confirm your new email"
	SubjectRecovery     = "KenteKart - Reset your password"
	SubjectConfirmation = "KenteKart - Email confirmation"
)

// Selection is what the selector decides for one event.
type Selection struct {
	Subject  string
	Template TemplateKind
}

// Select maps an action kind to its subject and template. ActionOther is
// the named fallback: a generic confirmation email.
func Select(kind domain.ActionKind) Selection {
	switch kind {
	case domain.ActionSignup:
		return Selection{Subject: SubjectSignup, Template: TemplateConfirmation}
	case domain.ActionEmailChange:
		return Selection{Subject: SubjectEmailChange, Template: TemplateConfirmation}
	case domain.ActionRecovery:
		return Selection{Subject: SubjectRecovery, Template: TemplateRecovery}
	case domain.ActionOther:
		fallthrough
	default:
		return Selection{Subject: SubjectConfirmation, Template: TemplateConfirmation}
	}
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// bodyData feeds the html templates. All fields are escaped by html/template.
type bodyData struct {
	Title      string
	Heading    string
	Intro      string
	Button     string
	URL        string
	CodeLabel  string
	Code       string
	Disclaimer string
}

func copyFor(kind TemplateKind, ev domain.AuthEvent) bodyData {
	if kind == TemplateRecovery {
		return bodyData{
			Title:      "Reset Your Password - KenteKart",
			Button:     "Reset Password",
			CodeLabel:  "Your reset code",
			Disclaimer: "If you didn't request a password reset, please ignore this email.",
		}
	}

	d := bodyData{
		Title:      "Welcome to KenteKart",
		Button:     "Confirm Email Address",
		CodeLabel:  "Your confirmation code",
		Disclaimer: "If you didn't create an account, please ignore this email.",
	}
	switch ev.Kind {
	case domain.ActionSignup:
		d.Heading = "Welcome to KenteKart!"
		d.Intro = "Thank you for joining Ghana's fastest-growing marketplace. Please confirm your email address to get started with buying and selling."
	case domain.ActionEmailChange:
		d.Title = "Confirm your new email - KenteKart"
		d.Heading = "Confirm your new email"
		d.Intro = "Please confirm this address to finish updating the email on your KenteKart account."
		d.Disclaimer = "If you didn't ask to change your email, please ignore this email."
	default:
		d.Title = "Confirm your email - KenteKart"
		d.Heading = "Confirm your email"
		d.Intro = "Please confirm your email address to continue with KenteKart."
	}
	return d
}
