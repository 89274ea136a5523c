package security

import "errors"

var (
	ErrMalformedHeaders = errors.New("missing or malformed webhook headers")
	ErrTimestampExpired = errors.New("message timestamp outside tolerance")
	ErrSignatureInvalid = errors.New("no matching signature found")
)
