package contracts

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
	"github.com/kentekart/marketplace/services/auth-email-hook/internal/security"
)

// AuthHookPayload is the identity provider's "send email" hook body.
// Unknown fields are ignored.
type AuthHookPayload struct {
	User      AuthHookUser      `json:"user"`
	EmailData AuthHookEmailData `json:"email_data"`
}

type AuthHookUser struct {
	Email string `json:"email" validate:"required"`
}

type AuthHookEmailData struct {
	Token           string `json:"token" validate:"required"`
	TokenHash       string `json:"token_hash" validate:"required"`
	RedirectTo      string `json:"redirect_to" validate:"required"`
	EmailActionType string `json:"email_action_type" validate:"required"`
	SiteURL         string `json:"site_url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseAuthEvent decodes a verified payload into an AuthEvent. It only
// accepts a security.VerifiedPayload, so nothing unverified reaches the
// renderer.
func ParseAuthEvent(p security.VerifiedPayload) (domain.AuthEvent, error) {
	var in AuthHookPayload
	if err := json.Unmarshal(p.Body(), &in); err != nil {
		return domain.AuthEvent{}, domain.ErrInvalidJSON(err)
	}

	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domain.AuthEvent{}, domain.ErrMissingField(fieldPath(ve[0]))
		}
		return domain.AuthEvent{}, domain.ErrInvalidJSON(err)
	}

	d := in.EmailData
	return domain.AuthEvent{
		WebhookID:  p.ID(),
		Kind:       domain.ParseActionKind(d.EmailActionType),
		ActionType: d.EmailActionType,
		UserEmail:  in.User.Email,
		Token:      d.Token,
		TokenHash:  d.TokenHash,
		RedirectTo: d.RedirectTo,
		SiteURL:    d.SiteURL,
	}, nil
}

// fieldPath turns "AuthHookPayload.email_data.token_hash" into
// "email_data.token_hash".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
