package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skyplan/internal/infra/config"
)

func TestIPRateLimiterRefills(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	clock := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	require.True(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"))

	clock = clock.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
}

func TestIPRateLimiterForgetsIdleVisitors(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})
	clock := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	require.True(t, limiter.allow("10.0.0.1"))
	clock = clock.Add(10 * time.Minute)
	require.True(t, limiter.allow("10.0.0.2"))
	require.Len(t, limiter.visitors, 1)
}

func TestWithRetryReplaysBody(t *testing.T) {
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if len(bodies) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("done"))
	})
	wrapped := withRetry(handler, config.RetryConfig{Enabled: true, MaxAttempts: 3}, newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sky/window", strings.NewReader(`{"x":1}`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "done", rec.Body.String())
	require.Equal(t, []string{`{"x":1}`, `{"x":1}`, `{"x":1}`}, bodies)
}

func TestWithRetrySkipsExcludedPaths(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	wrapped := withRetry(handler, config.RetryConfig{Enabled: true, MaxAttempts: 3, Exclude: []string{"/api/v1/observers"}}, newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/observers", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, calls)
}
