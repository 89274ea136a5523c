package domain

// ActionKind classifies which authentication event triggered an email.
// The zero value is ActionOther so an unrecognised action type always
// lands on the fallback arm.
type ActionKind int

const (
	ActionOther ActionKind = iota
	ActionSignup
	ActionEmailChange
	ActionRecovery
)

// ParseActionKind maps the identity provider's email_action_type by exact
// match. Anything unknown is ActionOther, never an error.
func ParseActionKind(s string) ActionKind {
	switch s {
	case "signup":
		return ActionSignup
	case "email_change":
		return ActionEmailChange
	case "recovery":
		return ActionRecovery
	default:
		return ActionOther
	}
}

func (k ActionKind) String() string {
	switch k {
	case ActionSignup:
		return "signup"
	case ActionEmailChange:
		return "email_change"
	case ActionRecovery:
		return "recovery"
	default:
		return "other"
	}
}

// AuthEvent is a verified, decoded authentication event. It lives for a
// single request and is never persisted.
type AuthEvent struct {
	WebhookID string

	Kind       ActionKind
	ActionType string // raw email_action_type, forwarded as the verify "type"

	UserEmail  string
	Token      string
	TokenHash  string
	RedirectTo string
	SiteURL    string
}
