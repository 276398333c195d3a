package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes treated as retryable contention.
const (
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
	pgQueryCanceled        = "57014"
)

// classify 將驅動錯誤轉為領域錯誤：鎖等待逾時、死結、序列化失敗都視為 Contention
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure, pgQueryCanceled:
			return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrContention, pgErr.Code)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// SetLockTimeout bounds every lock wait in tx. Must run first inside the transaction.
func SetLockTimeout(ctx context.Context, tx pgx.Tx, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	// SET LOCAL 不接受參數綁定，毫秒值由程式產生
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds()))
	return classify(err, "set lock timeout")
}
