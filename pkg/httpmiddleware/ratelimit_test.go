package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(t *testing.T, max int, window time.Duration) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mw := RateLimit(ctx, RateLimitConfig{
		Max:    max,
		Window: window,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-Test-Client")
		},
	})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(h http.Handler, client string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Test-Client", client)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	h := newLimitedHandler(t, 3, time.Minute)

	for i := range 3 {
		rec := hit(h, "a")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	h := newLimitedHandler(t, 2, time.Minute)

	hit(h, "a")
	hit(h, "a")
	rec := hit(h, "a")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.JSONEq(t, `{"code":429,"message":"rate limit exceeded"}`, rec.Body.String())
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	h := newLimitedHandler(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, hit(h, "a").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(h, "a").Code)
	assert.Equal(t, http.StatusOK, hit(h, "b").Code)
}

func TestRateLimit_Headers(t *testing.T) {
	h := newLimitedHandler(t, 5, time.Minute)

	rec := hit(h, "a")
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestLimiter_WindowRotation(t *testing.T) {
	l := &limiter{
		cfg:     RateLimitConfig{Max: 2, Window: time.Minute},
		clients: make(map[string]*client),
	}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	_, _, ok := l.take("a", base)
	require.True(t, ok)
	_, _, ok = l.take("a", base.Add(time.Second))
	require.True(t, ok)
	_, _, ok = l.take("a", base.Add(2*time.Second))
	require.False(t, ok)

	// Two full windows later the budget is fresh again.
	_, _, ok = l.take("a", base.Add(2*time.Minute+time.Second))
	assert.True(t, ok)
}

func TestLimiter_EvictStale(t *testing.T) {
	l := &limiter{
		cfg:     RateLimitConfig{Max: 2, Window: time.Minute},
		clients: make(map[string]*client),
	}

	base := time.Now()
	l.take("a", base)
	require.Len(t, l.clients, 1)

	l.evictStale(base.Add(3 * time.Minute))
	assert.Empty(t, l.clients)
}
