package idempotency

import (
	"context"
	"time"
)

// NoopStore is used when Redis is disabled: every delivery is new.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) Seen(ctx context.Context, id string) (bool, error) { return false, nil }

func (s *NoopStore) MarkSent(ctx context.Context, id string, ttl time.Duration) error { return nil }
