package main

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/security"
)

var (
	secret = "v1,whsec_" + base64.StdEncoding.EncodeToString([]byte("dev-key"))
	now    = func() time.Time { return time.Unix(1_700_000_000, 0) }
)

func TestRun_PrintsCurl(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-secret", secret, "-id", "msg_1"}, strings.NewReader(`{"it's":1}`), &out, now)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "webhook-id: msg_1")
	assert.Contains(t, s, "webhook-timestamp: 1700000000")
	assert.Contains(t, s, "webhook-signature: v1,")
	assert.Contains(t, s, `{"it'\''s":1}`)
}

func TestRun_PostsVerifiableRequest(t *testing.T) {
	v, err := security.NewWebhookVerifier(secret, time.Minute, security.WithClock(now))
	require.NoError(t, err)

	var verifyErr error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, verifyErr = v.Verify(body, r.Header)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err = run([]string{"-secret", secret, "-url", srv.URL}, strings.NewReader(`{"user":{}}`), &out, now)
	require.NoError(t, err)

	assert.NoError(t, verifyErr)
	assert.Contains(t, out.String(), "200 OK")
	assert.Contains(t, out.String(), `{"success":true}`)
}

func TestRun_BadSecret(t *testing.T) {
	err := run([]string{"-secret", ""}, strings.NewReader(`{}`), io.Discard, now)
	assert.Error(t, err)
}
