package repository

import (
	"context"
	"errors"
	"time"

	"go-gin-ticket-reservation/internal/model"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier 讓同一段 SQL 可在連接池或交易中執行
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListExpiredActiveIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) error
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error)
	TransitionFromActive(ctx context.Context, tx pgx.Tx, id uuid.UUID, target model.ReservationStatus, now time.Time) (*model.Reservation, error)
}

type ReservationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &ReservationRepositoryImpl{
		pool: pool,
	}
}

const reservationColumns = `id, user_id, event_id, status, total_amount, created_at, expires_at, updated_at`

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var r model.Reservation
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.EventID,
		&r.Status,
		&r.TotalAmount,
		&r.CreatedAt,
		&r.ExpiresAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Exec(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.EventID,
		reservation.Status,
		reservation.TotalAmount,
		reservation.CreatedAt,
		reservation.ExpiresAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return classify(err, "create reservation")
	}

	batch := &pgx.Batch{}
	for i, item := range reservation.Items {
		batch.Queue(`
			INSERT INTO reservation_items (reservation_id, position, ticket_type_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, reservation.ID, i, item.TicketTypeID, item.Quantity, item.UnitPrice)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return classify(err, "create reservation items")
	}
	return nil
}

func (r *ReservationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return findReservation(ctx, r.pool, query, id)
}

// FindByIDForUpdate 鎖定保留單列，重複的 webhook 會在此序列化
func (r *ReservationRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return findReservation(ctx, tx, query, id)
}

func findReservation(ctx context.Context, q querier, query string, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := scanReservation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, classify(err, "find reservation")
	}

	items, err := listItems(ctx, q, id)
	if err != nil {
		return nil, err
	}
	reservation.Items = items
	return reservation, nil
}

func listItems(ctx context.Context, q querier, reservationID uuid.UUID) ([]model.ReservationItem, error) {
	query := `
		SELECT ticket_type_id, quantity, unit_price
		FROM reservation_items
		WHERE reservation_id = $1
		ORDER BY position
	`
	rows, err := q.Query(ctx, query, reservationID)
	if err != nil {
		return nil, classify(err, "list reservation items")
	}
	defer rows.Close()

	items := make([]model.ReservationItem, 0)
	for rows.Next() {
		var item model.ReservationItem
		if err := rows.Scan(&item.TicketTypeID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, classify(err, "scan reservation item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list reservation items")
	}
	return items, nil
}

// ListExpiredActiveIDs returns candidates for the reclaimer. The list is a
// snapshot: each id must still win TransitionFromActive before anything changes.
func (r *ReservationRepositoryImpl) ListExpiredActiveIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM reservations
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, model.ReservationStatusActive, now, limit)
	if err != nil {
		return nil, classify(err, "list expired reservations")
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, classify(err, "scan expired reservation")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list expired reservations")
	}
	return ids, nil
}

// TransitionFromActive 以狀態 compare-and-swap 將保留單移出 active，到期條件寫在同一個 UPDATE：
// expired 只能在 expires_at <= now 時成立，cancelled 只能在 expires_at >= now 時成立，
// completed 由呼叫端持有列鎖自行檢查。CAS 失敗時不做任何修改，並回傳
// ErrReservationExpired（仍為 active 但已過期的取消）或 ErrReservationNotActive。
func (r *ReservationRepositoryImpl) TransitionFromActive(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	target model.ReservationStatus,
	now time.Time,
) (*model.Reservation, error) {
	if !model.ReservationStatusActive.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidInput
	}

	query := `
		UPDATE reservations
		SET status = $1::text, updated_at = $2
		WHERE id = $3 AND status = $4
		  AND ($1::text <> $5::text OR expires_at <= $2)
		  AND ($1::text <> $6::text OR expires_at >= $2)
		RETURNING ` + reservationColumns

	reservation, err := scanReservation(tx.QueryRow(ctx, query, target, now, id, model.ReservationStatusActive,
		model.ReservationStatusExpired, model.ReservationStatusCancelled))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionRejected(ctx, tx, id, target)
		}
		return nil, classify(err, "transition reservation")
	}

	items, err := listItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	reservation.Items = items
	return reservation, nil
}

// transitionRejected 在同一交易中判斷 CAS 失敗的原因
func (r *ReservationRepositoryImpl) transitionRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID, target model.ReservationStatus) error {
	var status model.ReservationStatus
	err := tx.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrReservationNotFound
		}
		return classify(err, "transition reservation")
	}
	if status == model.ReservationStatusActive && target == model.ReservationStatusCancelled {
		return apperrors.ErrReservationExpired
	}
	return apperrors.ErrReservationNotActive
}
