package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/menubebe/backend/internal/testhelpers"
)

func TestRedisLimiter(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	ctx := context.Background()

	limiter := NewRedisLimiter(client, RateLimitConfig{
		Window:    time.Hour,
		Limit:     2,
		KeyPrefix: "rate_limit:test",
	})

	for i := 0; i < 2; i++ {
		res, err := limiter.Allow(ctx, "198.51.100.7")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.Reset.After(time.Now()))

	res, err = limiter.Allow(ctx, "198.51.100.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// keys expire with their window
	keys, err := client.Keys(ctx, "rate_limit:test:*").Result()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	ttl, err := client.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
