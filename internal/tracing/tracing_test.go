package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	tp, err := InitTracing(context.Background(), Config{ServiceName: "auth-email-hook"})
	require.NoError(t, err)
	assert.Nil(t, tp.provider)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestInitTracing_EnabledWithoutEndpointIsNoop(t *testing.T) {
	tp, err := InitTracing(context.Background(), Config{ServiceName: "auth-email-hook", Enabled: true})
	require.NoError(t, err)
	assert.Nil(t, tp.provider)
}

func TestStartSpan_UsesGlobalProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "hook.handle")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "hook.handle", ended[0].Name())
}

func TestInitTracing_EnabledInstallsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := InitTracing(context.Background(), Config{
		ServiceName:    "auth-email-hook",
		ServiceVersion: "test",
		OTLPEndpoint:   "127.0.0.1:4318",
		Enabled:        true,
	})
	require.NoError(t, err)
	require.NotNil(t, tp.provider)
	assert.Same(t, tp.provider, otel.GetTracerProvider())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, tp.Shutdown(ctx))
}
