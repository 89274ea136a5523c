package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderWebhookID        = "webhook-id"
	HeaderWebhookTimestamp = "webhook-timestamp"
	HeaderWebhookSignature = "webhook-signature"

	// svix-* is the older spelling of the same scheme.
	headerSvixID        = "svix-id"
	headerSvixTimestamp = "svix-timestamp"
	headerSvixSignature = "svix-signature"

	signatureVersion = "v1"
	secretPrefix     = "whsec_"

	DefaultTolerance = 5 * time.Minute
)

// VerifiedPayload is a request body whose signature and timestamp were
// checked. Only this package can build one, so holding a VerifiedPayload is
// proof that verification ran.
type VerifiedPayload struct {
	id        string
	timestamp time.Time
	body      []byte
}

func (p VerifiedPayload) ID() string           { return p.id }
func (p VerifiedPayload) Timestamp() time.Time { return p.timestamp }
func (p VerifiedPayload) Body() []byte         { return p.body }

// WebhookVerifier checks Standard Webhooks signatures:
// base64(HMAC-SHA256(secret, "<id>.<timestamp>.<body>")).
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

type VerifierOption func(*WebhookVerifier)

// WithClock overrides the time source used for the replay window.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *WebhookVerifier) { v.now = now }
}

// NewWebhookVerifier decodes secret, which may carry the "v1," and
// "whsec_" prefixes the identity provider prints, and must be base64.
func NewWebhookVerifier(secret string, tolerance time.Duration, opts ...VerifierOption) (*WebhookVerifier, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return nil, err
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	v := &WebhookVerifier{
		secret:    key,
		tolerance: tolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimSpace(secret)
	s = strings.TrimPrefix(s, signatureVersion+",")
	s = strings.TrimPrefix(s, secretPrefix)
	if s == "" {
		return nil, fmt.Errorf("webhook secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("webhook secret is not valid base64")
	}
	return key, nil
}

// Verify checks headers and body. The timestamp window is enforced before
// the MAC, so a replayed message is rejected even with a good signature.
func (v *WebhookVerifier) Verify(body []byte, h http.Header) (VerifiedPayload, error) {
	id := firstHeader(h, HeaderWebhookID, headerSvixID)
	rawTS := firstHeader(h, HeaderWebhookTimestamp, headerSvixTimestamp)
	sigHeader := firstHeader(h, HeaderWebhookSignature, headerSvixSignature)

	if id == "" || rawTS == "" || sigHeader == "" {
		return VerifiedPayload{}, ErrMalformedHeaders
	}

	secs, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		return VerifiedPayload{}, ErrMalformedHeaders
	}
	ts := time.Unix(secs, 0)

	now := v.now()
	if now.Sub(ts) > v.tolerance || ts.Sub(now) > v.tolerance {
		return VerifiedPayload{}, ErrTimestampExpired
	}

	expected := v.mac(id, rawTS, body)
	for _, sig := range signatures(sigHeader) {
		got, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return VerifiedPayload{id: id, timestamp: ts, body: body}, nil
		}
	}

	return VerifiedPayload{}, ErrSignatureInvalid
}

// signatures returns the v1 signatures in header. Entries are "v1,<b64>",
// separated by spaces or commas ("v1,a v1,b" and "v1,a,v1,b" both parse).
// Base64 never contains a comma, so pairs can be read off in order.
func signatures(header string) []string {
	var out []string
	for _, field := range strings.Fields(header) {
		parts := strings.Split(field, ",")
		for i := 0; i+1 < len(parts); i += 2 {
			if parts[i] == signatureVersion && parts[i+1] != "" {
				out = append(out, parts[i+1])
			}
		}
	}
	return out
}

// Sign returns the signature header value for body, in the same format the
// identity provider sends.
func (v *WebhookVerifier) Sign(id string, ts time.Time, body []byte) string {
	sum := v.mac(id, strconv.FormatInt(ts.Unix(), 10), body)
	return signatureVersion + "," + base64.StdEncoding.EncodeToString(sum)
}

// SignedHeaders builds the full header set for a delivery. Used by tests
// and the hooksign tool.
func (v *WebhookVerifier) SignedHeaders(id string, ts time.Time, body []byte) http.Header {
	h := http.Header{}
	h.Set(HeaderWebhookID, id)
	h.Set(HeaderWebhookTimestamp, strconv.FormatInt(ts.Unix(), 10))
	h.Set(HeaderWebhookSignature, v.Sign(id, ts, body))
	return h
}

func (v *WebhookVerifier) mac(id, ts string, body []byte) []byte {
	m := hmac.New(sha256.New, v.secret)
	m.Write([]byte(id))
	m.Write([]byte{'.'})
	m.Write([]byte(ts))
	m.Write([]byte{'.'})
	m.Write(body)
	return m.Sum(nil)
}

func firstHeader(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(h.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
