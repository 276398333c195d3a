package repository

import (
	"errors"
	"testing"

	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		contention bool
	}{
		{"LockTimeout", &pgconn.PgError{Code: pgLockNotAvailable}, true},
		{"Deadlock", &pgconn.PgError{Code: pgDeadlockDetected}, true},
		{"Serialization", &pgconn.PgError{Code: pgSerializationFailure}, true},
		{"StatementTimeout", &pgconn.PgError{Code: pgQueryCanceled}, true},
		{"CheckViolation", &pgconn.PgError{Code: "23514"}, false},
		{"Plain", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err, "op")
			assert.Equal(t, tt.contention, errors.Is(err, apperrors.ErrContention))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, classify(nil, "op"))
}
