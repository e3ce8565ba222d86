package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocalLimiter(RateLimitConfig{Window: time.Minute, Limit: 3})
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.True(t, res.Reset.After(now))

	// other clients have their own bucket
	res, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// one token comes back every window/limit
	now = now.Add(20 * time.Second)
	res, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLocalLimiterSweep(t *testing.T) {
	now := time.Now()
	l := NewLocalLimiter(RateLimitConfig{Window: time.Minute, Limit: 1})
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	now = now.Add(30 * time.Second)
	_, _ = l.Allow(context.Background(), "b")

	now = now.Add(100 * time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.limiters, 1)
	assert.Contains(t, l.limiters, "b")
}

type stubLimiter struct {
	res Result
	err error
	key string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (Result, error) {
	s.key = key
	return s.res, s.err
}

func rateLimitedRouter(limiter Limiter) (*gin.Engine, *int) {
	logger, _ := test.NewNullLogger()
	hits := 0
	router := gin.New()
	router.Use(RequestID(), RateLimit(limiter, logger))
	router.POST("/api/generate-meals", func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})
	return router, &hits
}

func TestRateLimitMiddleware(t *testing.T) {
	reset := time.Now().Add(30 * time.Second)

	t.Run("allowed", func(t *testing.T) {
		limiter := &stubLimiter{res: Result{Allowed: true, Limit: 10, Remaining: 9, Reset: reset}}
		router, hits := rateLimitedRouter(limiter)

		req := httptest.NewRequest(http.MethodPost, "/api/generate-meals", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *hits)
		assert.Equal(t, "192.0.2.10", limiter.key)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejected", func(t *testing.T) {
		limiter := &stubLimiter{res: Result{Allowed: false, Limit: 10, Remaining: 0, Reset: reset}}
		router, hits := rateLimitedRouter(limiter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate-meals", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, 0, *hits)
		assert.Contains(t, w.Body.String(), `"error":"rate limit exceeded"`)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("limiter failure lets request through", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("connection refused")}
		router, hits := rateLimitedRouter(limiter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate-meals", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *hits)
		assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
	})
}
