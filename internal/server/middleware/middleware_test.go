package middleware

import (
	"context"
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

func TestRequestID(t *testing.T) {
	t.Run("generates an id", func(t *testing.T) {
		var got string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = RequestIDFrom(r.Context())
		})
		rec := httptest.NewRecorder()
		RequestID()(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, got)
		assert.Equal(t, got, rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses an inbound id", func(t *testing.T) {
		var got string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = RequestIDFrom(r.Context())
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		RequestID()(inner).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "upstream-id", got)
	})
}

// fakeLimiter allows the first n requests.
type fakeLimiter struct {
	remaining int
}

func (f *fakeLimiter) Allow(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	if f.remaining <= 0 {
		return false, nil
	}
	f.remaining--
	return true, nil
}

func TestRateLimit(t *testing.T) {
	t.Run("blocks over the limit", func(t *testing.T) {
		h := RateLimit(&fakeLimiter{remaining: 1}, 1, time.Minute)(okHandler())

		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "1", second.Header().Get("Retry-After"))
	})

	t.Run("nil limiter disables limiting", func(t *testing.T) {
		h := RateLimit(nil, 1, time.Minute)(okHandler())
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestExtractClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	assert.Equal(t, "203.0.113.9", extractClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	assert.Equal(t, "198.51.100.7", extractClientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "192.0.2.4")
	assert.Equal(t, "192.0.2.4", extractClientIP(req))
}
