package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doProbe(t *testing.T, handler http.HandlerFunc) (int, statusResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	s := New()

	code, body := doProbe(t, s.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Contains(t, body.Checks, "_readiness")
}

func TestReadyEndpoint_Ready(t *testing.T) {
	s := New()
	s.SetReady(true)

	code, body := doProbe(t, s.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestLiveEndpoint_HealthyByDefault(t *testing.T) {
	s := New()
	s.Register(Liveness, "noop", time.Second, func(context.Context) error { return nil })

	code, body := doProbe(t, s.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestProbe_FailureThreshold(t *testing.T) {
	p := &probe{
		name:    "flaky",
		kind:    Readiness,
		timeout: time.Second,
		check:   func(context.Context) error { return errors.New("down") },
	}
	p.healthy.Store(true)

	ctx := context.Background()

	// Below the threshold the probe stays healthy.
	p.execute(ctx)
	p.execute(ctx)
	assert.True(t, p.healthy.Load())

	p.execute(ctx)
	assert.False(t, p.healthy.Load())

	msg, failed := p.failure()
	assert.True(t, failed)
	assert.Equal(t, "down", msg)
}

func TestProbe_RecoversAfterSuccess(t *testing.T) {
	fail := true
	p := &probe{
		name:    "flaky",
		kind:    Readiness,
		timeout: time.Second,
		check: func(context.Context) error {
			if fail {
				return errors.New("down")
			}
			return nil
		},
	}

	ctx := context.Background()
	for range defaultFailureThreshold {
		p.execute(ctx)
	}
	require.False(t, p.healthy.Load())

	fail = false
	p.execute(ctx)
	assert.True(t, p.healthy.Load())
}

func TestIsReady_FailingProbe(t *testing.T) {
	s := New()
	s.SetReady(true)
	s.Register(Readiness, "db", time.Second, func(context.Context) error { return errors.New("down") })

	require.True(t, s.IsReady(), "probe has not failed yet")

	for _, p := range s.snapshot(Readiness) {
		for range defaultFailureThreshold {
			p.execute(context.Background())
		}
	}
	assert.False(t, s.IsReady())
}

func TestStartStop(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	s.Register(Liveness, "tick", time.Second, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background(), 10*time.Millisecond)
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("probe never executed")
	}
}
