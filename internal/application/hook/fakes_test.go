package hook

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/domain"
)

var errBoom = errors.New("boom")

// ---- Fake Sender ----

type fakeSender struct {
	mu sync.Mutex

	sent []domain.EmailMessage

	// scripted outcome
	result domain.DispatchResult
	err    error
}

func newFakeSender() *fakeSender {
	return &fakeSender{result: domain.Delivered("re_msg_1")}
}

func (s *fakeSender) Name() string { return "fake" }

func (s *fakeSender) Send(ctx context.Context, msg domain.EmailMessage) (domain.DispatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, msg)
	if s.err != nil {
		return domain.DispatchResult{}, s.err
	}
	return s.result, nil
}

func (s *fakeSender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSender) Last() domain.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

// ---- Fake Idempotency Store ----

type fakeIdem struct {
	mu sync.Mutex

	seen    map[string]bool
	seenErr error
	markErr error

	seenCalls int
	markCalls int
	lastTTL   time.Duration
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{seen: map[string]bool{}}
}

func (f *fakeIdem) Seen(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seenCalls++
	if f.seenErr != nil {
		return false, f.seenErr
	}
	return f.seen[id], nil
}

func (f *fakeIdem) MarkSent(ctx context.Context, id string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markCalls++
	f.lastTTL = ttl
	if f.markErr != nil {
		return f.markErr
	}
	f.seen[id] = true
	return nil
}
