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

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*model.Order, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error)
	FindByReservationID(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) (*model.Order, error)
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{
		pool: pool,
	}
}

const orderColumns = `id, reservation_id, buyer_id, total_amount, currency, paid_at, provider_ref, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.ReservationID,
		&order.BuyerID,
		&order.TotalAmount,
		&order.Currency,
		&order.PaidAt,
		&order.ProviderRef,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create 寫入訂單，reservation_id 為唯一鍵，同一保留單不可能產生第二張訂單
func (r *OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	query := `
		INSERT INTO orders (id, reservation_id, buyer_id, total_amount, currency, paid_at, provider_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + orderColumns

	created, err := scanOrder(tx.QueryRow(ctx, query,
		order.ID,
		order.ReservationID,
		order.BuyerID,
		order.TotalAmount,
		order.Currency,
		order.PaidAt,
		order.ProviderRef,
	))
	if err != nil {
		return nil, classify(err, "create order")
	}
	return created, nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, classify(err, "find order")
	}
	return order, nil
}

func (r *OrderRepositoryImpl) FindByReservationID(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE reservation_id = $1`

	order, err := scanOrder(tx.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, classify(err, "find order by reservation")
	}
	return order, nil
}

func (r *OrderRepositoryImpl) FindByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, classify(err, "list orders")
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, classify(err, "scan order")
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "list orders")
	}

	return orders, nil
}
