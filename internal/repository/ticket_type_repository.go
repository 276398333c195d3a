package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-ticket-reservation/internal/model"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *model.TicketType) (*model.TicketType, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.TicketType, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.TicketType, error)
	GetAvailability(ctx context.Context, id uuid.UUID) (*model.Availability, error)

	// Transaction methods
	FindByIDsForUpdate(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]*model.TicketType, error)
	Hold(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, now time.Time) error
	Release(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, now time.Time) error
	CommitHeld(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, now time.Time) error
}

type TicketTypeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &TicketTypeRepositoryImpl{
		pool: pool,
	}
}

const ticketTypeColumns = `
	id, event_id, name, unit_price, capacity, sold, held,
	min_per_order, max_per_order, sale_starts_at, sale_ends_at,
	active, created_at, updated_at
`

func scanTicketType(row pgx.Row) (*model.TicketType, error) {
	var t model.TicketType
	err := row.Scan(
		&t.ID,
		&t.EventID,
		&t.Name,
		&t.UnitPrice,
		&t.Capacity,
		&t.Sold,
		&t.Held,
		&t.MinPerOrder,
		&t.MaxPerOrder,
		&t.SaleStartsAt,
		&t.SaleEndsAt,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketTypeRepositoryImpl) Create(ctx context.Context, t *model.TicketType) (*model.TicketType, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
		INSERT INTO ticket_types (
			id, event_id, name, unit_price, capacity, sold, held,
			min_per_order, max_per_order, sale_starts_at, sale_ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + ticketTypeColumns

	created, err := scanTicketType(r.pool.QueryRow(ctx, query,
		t.ID, t.EventID, t.Name, t.UnitPrice, t.Capacity, t.Sold, t.Held,
		t.MinPerOrder, t.MaxPerOrder, t.SaleStartsAt, t.SaleEndsAt, t.Active,
	))
	if err != nil {
		return nil, classify(err, "create ticket type")
	}
	return created, nil
}

func (r *TicketTypeRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.TicketType, error) {
	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE id = $1`

	t, err := scanTicketType(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketTypeNotFound
		}
		return nil, classify(err, "find ticket type")
	}
	return t, nil
}

func (r *TicketTypeRepositoryImpl) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.TicketType, error) {
	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE event_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, classify(err, "list ticket types")
	}
	defer rows.Close()

	ticketTypes := make([]*model.TicketType, 0)
	for rows.Next() {
		t, err := scanTicketType(rows)
		if err != nil {
			return nil, classify(err, "scan ticket type")
		}
		ticketTypes = append(ticketTypes, t)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "list ticket types")
	}

	return ticketTypes, nil
}

// GetAvailability 直接讀取引擎所修改的同一組計數欄位，不經過任何快取
func (r *TicketTypeRepositoryImpl) GetAvailability(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	query := `
		SELECT id, capacity, sold, held
		FROM ticket_types
		WHERE id = $1
	`

	var a model.Availability
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.TicketTypeID, &a.Capacity, &a.Sold, &a.Held)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketTypeNotFound
		}
		return nil, classify(err, "get availability")
	}
	a.Available = a.Capacity - a.Sold - a.Held
	return &a, nil
}

// FindByIDsForUpdate locks every requested row in ascending id order so two
// multi-item transactions over overlapping types cannot deadlock. Missing ids
// are simply absent from the result.
func (r *TicketTypeRepositoryImpl) FindByIDsForUpdate(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]*model.TicketType, error) {
	query := `SELECT ` + ticketTypeColumns + `
		FROM ticket_types
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, classify(err, "lock ticket types")
	}
	defer rows.Close()

	ticketTypes := make([]*model.TicketType, 0, len(ids))
	for rows.Next() {
		t, err := scanTicketType(rows)
		if err != nil {
			return nil, classify(err, "lock ticket types")
		}
		ticketTypes = append(ticketTypes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "lock ticket types")
	}
	return ticketTypes, nil
}

// Hold 條件式增加 held，庫存不足時不更新任何列
func (r *TicketTypeRepositoryImpl) Hold(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, now time.Time) error {
	query := `
		UPDATE ticket_types
		SET held = held + $1, updated_at = $2
		WHERE id = $3 AND capacity - sold - held >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, now, id)
	if err != nil {
		return classify(err, "hold inventory")
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientInventory
	}

	return nil
}

func (r *TicketTypeRepositoryImpl) Release(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, now time.Time) error {
	query := `
		UPDATE ticket_types
		SET held = held - $1, updated_at = $2
		WHERE id = $3 AND held >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, now, id)
	if err != nil {
		return classify(err, "release inventory")
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("release inventory %s: held count below reserved quantity", id)
	}

	return nil
}

// CommitHeld moves quantity from held to sold.
func (r *TicketTypeRepositoryImpl) CommitHeld(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, now time.Time) error {
	query := `
		UPDATE ticket_types
		SET held = held - $1, sold = sold + $1, updated_at = $2
		WHERE id = $3 AND held >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, now, id)
	if err != nil {
		return classify(err, "commit inventory")
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("commit inventory %s: held count below reserved quantity", id)
	}

	return nil
}
