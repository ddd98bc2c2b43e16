package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterPerClient(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{RequestsPerMinute: 60, Burst: 2})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.clockNow = func() time.Time { return now }
	h := limiter.Middleware(okHandler())

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "other clients keep their own budget")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1003"))
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{RequestsPerMinute: 60, Burst: 1})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.clockNow = func() time.Time { return now }

	assert.True(t, limiter.allow("a"))
	now = now.Add(10 * time.Minute)
	assert.True(t, limiter.allow("b"))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.visitors, "a")
	assert.Contains(t, limiter.visitors, "b")
}

func TestAdminAuth(t *testing.T) {
	cases := []struct {
		name      string
		token     string
		presented string
		want      int
	}{
		{name: "Match", token: "s3cret", presented: "s3cret", want: http.StatusOK},
		{name: "Mismatch", token: "s3cret", presented: "guess", want: http.StatusForbidden},
		{name: "Missing", token: "s3cret", presented: "", want: http.StatusForbidden},
		{name: "Disabled", token: "", presented: "", want: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tc.presented != "" {
				req.Header.Set("X-Admin-Token", tc.presented)
			}
			rec := httptest.NewRecorder()
			AdminAuth(tc.token)(okHandler()).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
