package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// Result 單次檢查的結果
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	// Allow 記錄一次嘗試並回傳是否在視窗限制內
	Allow(ctx context.Context, key string) (Result, error)
}

type RedisSlidingWindowLimiter struct {
	client      *redis.Client
	clock       clockwork.Clock
	window      time.Duration
	maxAttempts int
	prefix      string
}

func NewRedisSlidingWindowLimiter(client *redis.Client, clock clockwork.Clock, prefix string, window time.Duration, maxAttempts int) *RedisSlidingWindowLimiter {
	return &RedisSlidingWindowLimiter{
		client:      client,
		clock:       clock,
		window:      window,
		maxAttempts: maxAttempts,
		prefix:      prefix,
	}
}

func (l *RedisSlidingWindowLimiter) getKey(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
}

/*
滑動視窗計數 (使用Lua腳本確保原子性)
 1. 移除視窗外的紀錄
 2. 檢查視窗內次數
 3. 未超過則記錄本次嘗試
*/
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	-- 1. 移除視窗外的紀錄
	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

	-- 2. 檢查視窗內次數
	local count = redis.call('ZCARD', key)
	if count >= limit then
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local retry_after = window
		if oldest[2] then
			retry_after = tonumber(oldest[2]) + window - now
		end
		return {0, 0, retry_after}
	end

	-- 3. 記錄本次嘗試
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, limit - count - 1, 0}
`)

func (l *RedisSlidingWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.clock.Now().UnixMilli()
	values, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.getKey(key)},
		now, l.window.Milliseconds(), l.maxAttempts, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(values) != 3 {
		return Result{}, fmt.Errorf("rate limit script: unexpected result %v", values)
	}

	return Result{
		Allowed:    values[0] == 1,
		Remaining:  int(values[1]),
		RetryAfter: time.Duration(values[2]) * time.Millisecond,
	}, nil
}
