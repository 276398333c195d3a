package repository

import (
	"context"
	"errors"

	"go-gin-ticket-reservation/internal/model"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository 已開立票券
type TicketRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Ticket, error)

	// Transaction methods
	CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error
	ListByOrderID(ctx context.Context, tx pgx.Tx, order *model.Order) ([]*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, order_id, ticket_type_id, code, status, created_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(
		&t.ID,
		&t.OrderID,
		&t.TicketTypeID,
		&t.Code,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateBatch 以 COPY 一次寫入整張訂單的票券
func (r *TicketRepositoryImpl) CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []any{t.ID, t.OrderID, t.TicketTypeID, t.Code, string(t.Status), t.CreatedAt})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"tickets"},
		[]string{"id", "order_id", "ticket_type_id", "code", "status", "created_at"},
		pgx.CopyFromRows(rows),
	)
	return classify(err, "create tickets")
}

// ListByOrderID 傳入 nil tx 時改用連接池查詢
func (r *TicketRepositoryImpl) ListByOrderID(ctx context.Context, tx pgx.Tx, order *model.Order) ([]*model.Ticket, error) {
	var q querier = r.pool
	if tx != nil {
		q = tx
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE order_id = $1 ORDER BY ticket_type_id, code`
	rows, err := q.Query(ctx, query, order.ID)
	if err != nil {
		return nil, classify(err, "list tickets")
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, classify(err, "scan ticket")
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list tickets")
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE code = $1`

	t, err := scanTicket(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, classify(err, "find ticket")
	}
	return t, nil
}
