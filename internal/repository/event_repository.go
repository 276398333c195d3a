package repository

import (
	"context"
	"errors"

	"go-gin-ticket-reservation/internal/model"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository 活動為外部協作者維護，引擎只需讀取存在與狀態
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)

	// Transaction methods
	FindByIDForShare(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	query := `
		INSERT INTO events (id, name, status, starts_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, status, starts_at, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		event.ID, event.Name, event.Status, event.StartsAt,
	).Scan(
		&event.ID,
		&event.Name,
		&event.Status,
		&event.StartsAt,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, classify(err, "create event")
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT id, name, status, starts_at, created_at
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

// FindByIDForShare 以共享鎖讀取活動，避免保留期間活動狀態被同時修改
func (r *EventRepositoryImpl) FindByIDForShare(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT id, name, status, starts_at, created_at
		FROM events
		WHERE id = $1
		FOR SHARE
	`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Status,
		&event.StartsAt,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventUnavailable
		}
		return nil, classify(err, "find event")
	}
	return &event, nil
}
