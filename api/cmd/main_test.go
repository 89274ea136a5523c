package main

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/config"
)

type fakeApp struct {
	startErr error
	stopErr  error

	started chan struct{}
	stopped bool
}

func newFakeApp() *fakeApp { return &fakeApp{started: make(chan struct{})} }

func (f *fakeApp) Start(ctx context.Context) error {
	close(f.started)
	if f.startErr != nil {
		return f.startErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeApp) Stop(ctx context.Context) error {
	f.stopped = true
	return f.stopErr
}

func TestRun_BootstrapFail_Returns1(t *testing.T) {
	build := func() (runner, func(), error) {
		return nil, nil, errors.New("boom")
	}
	assert.Equal(t, 1, Run(build, make(chan os.Signal, 1), zerolog.Nop()))
}

func TestRun_OnSignal_StopsAndReturns0(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	app := newFakeApp()
	cleanupCalled := false
	build := func() (runner, func(), error) {
		return app, func() { cleanupCalled = true }, nil
	}

	assert.Equal(t, 0, Run(build, sigCh, zerolog.Nop()))
	assert.True(t, app.stopped)
	assert.True(t, cleanupCalled)
}

func TestRun_OnCrash_Returns1(t *testing.T) {
	app := newFakeApp()
	app.startErr = errors.New("listen tcp :8090: bind: address already in use")

	cleanupCalled := false
	build := func() (runner, func(), error) {
		return app, func() { cleanupCalled = true }, nil
	}

	assert.Equal(t, 1, Run(build, make(chan os.Signal, 1), zerolog.Nop()))
	assert.False(t, app.stopped)
	assert.True(t, cleanupCalled)
}

func TestRun_StopFail_Returns1(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	app := newFakeApp()
	app.stopErr = errors.New("shutdown timed out")
	build := func() (runner, func(), error) {
		return app, func() {}, nil
	}

	assert.Equal(t, 1, Run(build, sigCh, zerolog.Nop()))
}

func TestBuildFromBootstrap_WiringErrorSurfaces(t *testing.T) {
	cfg := &config.Config{EmailSender: config.SenderFake}

	app, cleanup, err := buildFromBootstrap(cfg, zerolog.Nop())()
	assert.Error(t, err)
	assert.Nil(t, app)
	assert.Nil(t, cleanup)

	assert.Equal(t, 1, Run(buildFromBootstrap(cfg, zerolog.Nop()), make(chan os.Signal, 1), zerolog.Nop()))
}
