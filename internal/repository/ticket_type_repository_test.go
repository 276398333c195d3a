package repository

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/testutil"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// updated_at 來自呼叫端傳入的時鐘，不是資料庫或系統時間
func ticketTypeUpdatedAt(t *testing.T, id uuid.UUID) time.Time {
	t.Helper()
	var updatedAt time.Time
	err := testDB.QueryRow(context.Background(), `SELECT updated_at FROM ticket_types WHERE id = $1`, id).Scan(&updatedAt)
	require.NoError(t, err)
	return updatedAt
}

func TestTicketTypeRepository_Hold(t *testing.T) {
	repo := NewTicketTypeRepository(testDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
		id := testutil.CreateTicketType(t, testDB, eventID, 10, 1000, testutil.WithSold(4), testutil.WithHeld(3))

		err := withTx(t, func(tx pgx.Tx) error { return repo.Hold(ctx, tx, id, 3, testNow) })
		require.NoError(t, err)

		sold, held := testutil.Counters(t, testDB, id)
		assert.Equal(t, 4, sold)
		assert.Equal(t, 6, held)
		assert.True(t, testNow.Equal(ticketTypeUpdatedAt(t, id)))
	})

	t.Run("Failed - InsufficientInventory", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
		id := testutil.CreateTicketType(t, testDB, eventID, 10, 1000, testutil.WithSold(4), testutil.WithHeld(3))

		err := withTx(t, func(tx pgx.Tx) error { return repo.Hold(ctx, tx, id, 4, testNow) })
		assert.ErrorIs(t, err, apperrors.ErrInsufficientInventory)

		sold, held := testutil.Counters(t, testDB, id)
		assert.Equal(t, 4, sold)
		assert.Equal(t, 3, held)
	})
}

func TestTicketTypeRepository_ReleaseAndCommit(t *testing.T) {
	repo := NewTicketTypeRepository(testDB)
	ctx := context.Background()

	t.Run("Release", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
		id := testutil.CreateTicketType(t, testDB, eventID, 10, 1000, testutil.WithHeld(5))

		require.NoError(t, withTx(t, func(tx pgx.Tx) error { return repo.Release(ctx, tx, id, 3, testNow) }))

		sold, held := testutil.Counters(t, testDB, id)
		assert.Equal(t, 0, sold)
		assert.Equal(t, 2, held)
		assert.True(t, testNow.Equal(ticketTypeUpdatedAt(t, id)))
	})

	t.Run("CommitHeld", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
		id := testutil.CreateTicketType(t, testDB, eventID, 10, 1000, testutil.WithSold(1), testutil.WithHeld(5))

		require.NoError(t, withTx(t, func(tx pgx.Tx) error { return repo.CommitHeld(ctx, tx, id, 3, testNow) }))

		sold, held := testutil.Counters(t, testDB, id)
		assert.Equal(t, 4, sold)
		assert.Equal(t, 2, held)
		assert.True(t, testNow.Equal(ticketTypeUpdatedAt(t, id)))
	})

	// held 不足時不得變成負數
	t.Run("Failed - HeldBelowQuantity", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
		id := testutil.CreateTicketType(t, testDB, eventID, 10, 1000, testutil.WithHeld(1))

		assert.Error(t, withTx(t, func(tx pgx.Tx) error { return repo.Release(ctx, tx, id, 2, testNow) }))
		assert.Error(t, withTx(t, func(tx pgx.Tx) error { return repo.CommitHeld(ctx, tx, id, 2, testNow) }))

		sold, held := testutil.Counters(t, testDB, id)
		assert.Equal(t, 0, sold)
		assert.Equal(t, 1, held)
	})
}

func TestTicketTypeRepository_FindByIDsForUpdate(t *testing.T) {
	setupTestWithTruncate(t)
	repo := NewTicketTypeRepository(testDB)
	ctx := context.Background()

	eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
	ids := []uuid.UUID{
		testutil.CreateTicketType(t, testDB, eventID, 10, 1000),
		testutil.CreateTicketType(t, testDB, eventID, 20, 2000),
		testutil.CreateTicketType(t, testDB, eventID, 30, 3000),
	}

	var locked []*model.TicketType
	err := withTx(t, func(tx pgx.Tx) error {
		var err error
		locked, err = repo.FindByIDsForUpdate(ctx, tx, append(ids, uuid.New()))
		return err
	})
	require.NoError(t, err)
	require.Len(t, locked, 3)

	got := []uuid.UUID{locked[0].ID, locked[1].ID, locked[2].ID}
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return bytes.Compare(got[i][:], got[j][:]) < 0 }))
}

// 另一個交易持有列鎖時，lock_timeout 到期回傳 Contention
func TestTicketTypeRepository_LockTimeoutIsContention(t *testing.T) {
	setupTestWithTruncate(t)
	repo := NewTicketTypeRepository(testDB)
	ctx := context.Background()

	eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
	id := testutil.CreateTicketType(t, testDB, eventID, 10, 1000)

	holder, err := testDB.Begin(ctx)
	require.NoError(t, err)
	defer holder.Rollback(ctx)
	_, err = repo.FindByIDsForUpdate(ctx, holder, []uuid.UUID{id})
	require.NoError(t, err)

	err = withTx(t, func(tx pgx.Tx) error {
		if err := SetLockTimeout(ctx, tx, 50*time.Millisecond); err != nil {
			return err
		}
		_, err := repo.FindByIDsForUpdate(ctx, tx, []uuid.UUID{id})
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrContention)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestTicketTypeRepository_GetAvailability(t *testing.T) {
	repo := NewTicketTypeRepository(testDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		setupTestWithTruncate(t)
		eventID := testutil.CreateEvent(t, testDB, model.EventStatusPublished)
		id := testutil.CreateTicketType(t, testDB, eventID, 100, 1000, testutil.WithSold(60), testutil.WithHeld(15))

		availability, err := repo.GetAvailability(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 100, availability.Capacity)
		assert.Equal(t, 60, availability.Sold)
		assert.Equal(t, 15, availability.Held)
		assert.Equal(t, 25, availability.Available)
	})

	t.Run("NotFound", func(t *testing.T) {
		setupTestWithTruncate(t)

		_, err := repo.GetAvailability(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrTicketTypeNotFound)
	})
}
