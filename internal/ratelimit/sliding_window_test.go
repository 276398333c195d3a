package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, window time.Duration, max int) (*RedisSlidingWindowLimiter, *clockwork.FakeClock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewRedisSlidingWindowLimiter(client, clock, "checkout", window, max), clock, mr
}

func TestAllow_WithinLimit(t *testing.T) {
	limiter, _, _ := setupLimiter(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 2-i, result.Remaining)
	}
}

func TestAllow_RejectsOverLimit(t *testing.T) {
	limiter, clock, _ := setupLimiter(t, time.Minute, 2)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(10 * time.Second)
	_, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)

	result, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	// 最舊的一筆在 50 秒後滑出視窗
	assert.Equal(t, 50*time.Second, result.RetryAfter)
}

func TestAllow_WindowSlides(t *testing.T) {
	limiter, clock, _ := setupLimiter(t, time.Minute, 1)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	clock.Advance(30 * time.Second)
	result, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	clock.Advance(31 * time.Second)
	result, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

// 被拒絕的嘗試不計入視窗
func TestAllow_RejectedAttemptsNotRecorded(t *testing.T) {
	limiter, clock, _ := setupLimiter(t, time.Minute, 1)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		result, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
	}

	clock.Advance(11 * time.Second)
	result, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter, _, mr := setupLimiter(t, time.Minute, 1)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	assert.True(t, mr.Exists("ratelimit:checkout:user-1"))
	assert.True(t, mr.Exists("ratelimit:checkout:user-2"))
}

func TestAllow_RedisDown(t *testing.T) {
	limiter, _, mr := setupLimiter(t, time.Minute, 1)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "user-1")
	assert.Error(t, err)
}
