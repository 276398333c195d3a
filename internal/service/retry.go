package service

import (
	"context"
	"time"

	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/metrics"
)

// RetryPolicy bounds automatic retries of Contention failures.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// withContentionRetry 只在 Contention 時重試，每次等待時間線性增加；其他錯誤直接回傳
func withContentionRetry[T any](ctx context.Context, policy RetryPolicy, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !apperrors.IsRetryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		metrics.ContentionRetriesTotal.WithLabelValues(operation).Inc()
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(policy.Backoff * time.Duration(attempt)):
		}
	}
	return zero, lastErr
}
