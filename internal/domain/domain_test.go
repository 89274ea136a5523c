package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseActionKind(t *testing.T) {
	cases := map[string]ActionKind{
		"signup":       ActionSignup,
		"email_change": ActionEmailChange,
		"recovery":     ActionRecovery,
		"magiclink":    ActionOther,
		"invite":       ActionOther,
		"SIGNUP":       ActionOther, // exact match only
		"":             ActionOther,
		"signup ":      ActionOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseActionKind(in), "input %q", in)
	}
}

func TestActionKind_ZeroValueIsFallback(t *testing.T) {
	var k ActionKind
	assert.Equal(t, ActionOther, k)
	assert.Equal(t, "other", k.String())
}

func TestError_WrapAndInspect(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("hook: %w", ErrTransport(cause))

	assert.True(t, Is(err, "transport_error"))
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestErrProviderRejected_Defaults(t *testing.T) {
	e := ErrProviderRejected(ErrorDetail{})
	assert.Equal(t, "provider_error", e.Code)
	assert.Equal(t, "email provider rejected the message", e.Message)
	assert.Equal(t, 0, e.HTTPCode)

	e = ErrProviderRejected(ErrorDetail{Code: 422, Name: "validation_error", Message: "Invalid `to` field."})
	assert.Equal(t, KindProvider, e.Kind)
	assert.Equal(t, "validation_error", e.Code)
	assert.Equal(t, 422, e.HTTPCode)
}

func TestErrMissingField_CarriesField(t *testing.T) {
	e := ErrMissingField("email_data.token_hash")
	assert.Equal(t, KindSchema, e.Kind)
	assert.Equal(t, "email_data.token_hash", e.Meta["field"])
	assert.Contains(t, e.Message, "email_data.token_hash")
}
