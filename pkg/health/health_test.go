package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadiness_ManualGate(t *testing.T) {
	h := New()
	assert.False(t, h.IsReady(), "fresh instance must not be ready")

	h.SetReady(true)
	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestReadiness_FailureThreshold(t *testing.T) {
	var fail atomic.Bool
	h := New()
	h.AddReadinessCheck("dep", time.Second, func(context.Context) error {
		if fail.Load() {
			return errors.New("dep down")
		}
		return nil
	})
	h.SetReady(true)

	c := h.readiness[0]
	ctx := context.Background()

	fail.Store(true)
	c.run(ctx)
	c.run(ctx)
	assert.True(t, h.IsReady(), "below the failure threshold the check stays healthy")

	c.run(ctx)
	assert.False(t, h.IsReady(), "third consecutive failure marks it unhealthy")

	fail.Store(false)
	c.run(ctx)
	assert.True(t, h.IsReady(), "one success restores health")
}

func TestReadyEndpoint(t *testing.T) {
	h := New()
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})
	h.SetReady(true)

	c := h.readiness[0]
	for i := 0; i < failureThreshold; i++ {
		c.run(context.Background())
	}

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp probeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["db"])
}

func TestLiveEndpoint_OK(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(100000))

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
