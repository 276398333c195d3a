package repository

import (
	"context"
	"testing"
	"time"

	"go-gin-ticket-reservation/internal/model"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_CreateAndFind(t *testing.T) {
	setupTestWithTruncate(t)
	repo := NewEventRepository(testDB)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Event{
		Name:     "Recital Estadio",
		Status:   model.EventStatusPublished,
		StartsAt: testNow.Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotZero(t, created.CreatedAt)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Recital Estadio", found.Name)
	assert.True(t, found.Status.IsSellable())

	err = withTx(t, func(tx pgx.Tx) error {
		shared, err := repo.FindByIDForShare(ctx, tx, created.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, created.ID, shared.ID)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrEventUnavailable)
}

func TestTicketTypeRepository_CreateAndList(t *testing.T) {
	setupTestWithTruncate(t)
	events := NewEventRepository(testDB)
	repo := NewTicketTypeRepository(testDB)
	ctx := context.Background()

	event, err := events.Create(ctx, &model.Event{Name: "Festival", Status: model.EventStatusDraft, StartsAt: testNow})
	require.NoError(t, err)

	saleEnds := testNow.Add(24 * time.Hour)
	created, err := repo.Create(ctx, &model.TicketType{
		EventID:     event.ID,
		Name:        "Platea",
		UnitPrice:   4500,
		Capacity:    200,
		MinPerOrder: 2,
		MaxPerOrder: 6,
		SaleEndsAt:  &saleEnds,
		Active:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, created.Available())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platea", found.Name)
	assert.Nil(t, found.SaleStartsAt)
	require.NotNil(t, found.SaleEndsAt)
	assert.True(t, found.SaleEndsAt.Equal(saleEnds))

	_, err = repo.Create(ctx, &model.TicketType{EventID: event.ID, Name: "Campo", UnitPrice: 2000, Capacity: 500, Active: true})
	require.NoError(t, err)

	list, err := repo.ListByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrTicketTypeNotFound)

	// sold + held 超過 capacity 由資料庫約束拒絕
	_, err = repo.Create(ctx, &model.TicketType{EventID: event.ID, Name: "Roto", Capacity: 1, Sold: 1, Held: 1, Active: true})
	assert.Error(t, err)
}
