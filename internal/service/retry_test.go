package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/stretchr/testify/assert"
)

func TestWithContentionRetry(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	contention := fmt.Errorf("lock ticket types: %w (55P03)", apperrors.ErrContention)

	t.Run("SucceedsAfterContention", func(t *testing.T) {
		calls := 0
		result, err := withContentionRetry(context.Background(), policy, "test", func(ctx context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, contention
			}
			return 42, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, calls)
	})

	t.Run("GivesUpWithContention", func(t *testing.T) {
		calls := 0
		_, err := withContentionRetry(context.Background(), policy, "test", func(ctx context.Context) (int, error) {
			calls++
			return 0, contention
		})
		assert.True(t, errors.Is(err, apperrors.ErrContention))
		assert.Equal(t, 3, calls)
	})

	// 業務錯誤不重試
	t.Run("TerminalErrorNotRetried", func(t *testing.T) {
		calls := 0
		_, err := withContentionRetry(context.Background(), policy, "test", func(ctx context.Context) (int, error) {
			calls++
			return 0, apperrors.ErrInsufficientInventory
		})
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientInventory))
		assert.Equal(t, 1, calls)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := withContentionRetry(ctx, RetryPolicy{Attempts: 3, Backoff: time.Hour}, "test", func(ctx context.Context) (int, error) {
			return 0, contention
		})
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("ZeroAttemptsRunsOnce", func(t *testing.T) {
		calls := 0
		_, _ = withContentionRetry(context.Background(), RetryPolicy{}, "test", func(ctx context.Context) (int, error) {
			calls++
			return 0, contention
		})
		assert.Equal(t, 1, calls)
	})
}
