package testutil

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"go-gin-ticket-reservation/config"
	"go-gin-ticket-reservation/internal/database"
	"go-gin-ticket-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupDatabase 連線測試 DB 並在獨立的 schema 中建表，各 package 的測試可平行執行而不互相 TRUNCATE。
// DB 不可用時回傳錯誤，由呼叫端決定跳過。
func SetupDatabase(schema string) (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()
	cfg.Database.Schema = schema

	testDB, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test database: %v", err)
	}

	if _, err := testDB.Exec(context.Background(), "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		testDB.Close()
		return nil, nil, fmt.Errorf("failed to create schema %s: %v", schema, err)
	}

	if err := database.Migrate(context.Background(), testDB); err != nil {
		testDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate test database: %v", err)
	}

	log.Println("Test database connected successfully")

	cleanup := func() {
		testDB.Close()
		log.Println("Test database closed")
	}
	return testDB, cleanup, nil
}

// RequireDB skips the test when TestMain could not reach the test database.
func RequireDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if pool == nil {
		t.Skip("test database not available")
	}
}

func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"TRUNCATE tickets, orders, reservation_items, reservations, ticket_types, events RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

func CreateEvent(t *testing.T, pool *pgxpool.Pool, status model.EventStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO events (id, name, status, starts_at)
		VALUES ($1, $2, $3, $4)
	`, id, "Test Event "+id.String()[:8], status, time.Now().Add(30*24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return id
}

// TicketTypeOption 調整測試票種欄位
type TicketTypeOption func(*model.TicketType)

func WithSold(sold int) TicketTypeOption {
	return func(tt *model.TicketType) { tt.Sold = sold }
}

func WithHeld(held int) TicketTypeOption {
	return func(tt *model.TicketType) { tt.Held = held }
}

func WithBounds(min, max int) TicketTypeOption {
	return func(tt *model.TicketType) { tt.MinPerOrder, tt.MaxPerOrder = min, max }
}

func WithSaleWindow(start, end *time.Time) TicketTypeOption {
	return func(tt *model.TicketType) { tt.SaleStartsAt, tt.SaleEndsAt = start, end }
}

func Inactive() TicketTypeOption {
	return func(tt *model.TicketType) { tt.Active = false }
}

func CreateTicketType(t *testing.T, pool *pgxpool.Pool, eventID uuid.UUID, capacity int, unitPrice int64, opts ...TicketTypeOption) uuid.UUID {
	t.Helper()

	tt := &model.TicketType{
		ID:        uuid.New(),
		EventID:   eventID,
		Name:      "General",
		UnitPrice: unitPrice,
		Capacity:  capacity,
		Active:    true,
	}
	for _, opt := range opts {
		opt(tt)
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO ticket_types (
			id, event_id, name, unit_price, capacity, sold, held,
			min_per_order, max_per_order, sale_starts_at, sale_ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, tt.ID, tt.EventID, tt.Name, tt.UnitPrice, tt.Capacity, tt.Sold, tt.Held,
		tt.MinPerOrder, tt.MaxPerOrder, tt.SaleStartsAt, tt.SaleEndsAt, tt.Active)
	if err != nil {
		t.Fatalf("Failed to create test ticket type: %v", err)
	}
	return tt.ID
}

// Counters 讀取帳本目前的 sold / held
func Counters(t *testing.T, pool *pgxpool.Pool, ticketTypeID uuid.UUID) (sold, held int) {
	t.Helper()
	err := pool.QueryRow(context.Background(),
		"SELECT sold, held FROM ticket_types WHERE id = $1", ticketTypeID).Scan(&sold, &held)
	if err != nil {
		t.Fatalf("Failed to read counters: %v", err)
	}
	return sold, held
}

func ReservationStatus(t *testing.T, pool *pgxpool.Pool, reservationID uuid.UUID) model.ReservationStatus {
	t.Helper()
	var status model.ReservationStatus
	err := pool.QueryRow(context.Background(),
		"SELECT status FROM reservations WHERE id = $1", reservationID).Scan(&status)
	if err != nil {
		t.Fatalf("Failed to read reservation status: %v", err)
	}
	return status
}

func CountRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
