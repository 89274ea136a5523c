package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentekart/marketplace/services/auth-email-hook/internal/transport/http/middleware"
)

// ---------- fakes ----------

type fakeHealth struct{}

func (fakeHealth) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type fakeHook struct{ methods []string }

func (f *fakeHook) SendAuthEmail(w http.ResponseWriter, r *http.Request) {
	f.methods = append(f.methods, r.Method)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("hook"))
}

func TestNew_RequiresHandlers(t *testing.T) {
	_, err := New(Deps{Hook: &fakeHook{}})
	assert.Error(t, err)

	_, err = New(Deps{Health: fakeHealth{}})
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	hook := &fakeHook{}
	metricsHit := false
	h, err := New(Deps{
		Health: fakeHealth{},
		Hook:   hook,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metricsHit = true
		}),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderXRequestID))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, metricsHit)

	for _, m := range []string{http.MethodPost, http.MethodGet, http.MethodPatch} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(m, "/", nil))
		assert.Equal(t, "hook", rec.Body.String(), m)
	}
	assert.Equal(t, []string{http.MethodPost, http.MethodGet, http.MethodPatch}, hook.methods)
}

func TestRecoverer(t *testing.T) {
	h, err := New(Deps{Health: fakeHealth{}, Hook: panicHook{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panicHook struct{}

func (panicHook) SendAuthEmail(w http.ResponseWriter, r *http.Request) { panic("boom") }
