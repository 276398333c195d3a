package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketType 票種：庫存帳本的一列，sold + held <= capacity
type TicketType struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	EventID      uuid.UUID  `json:"event_id" db:"event_id"`
	Name         string     `json:"name" db:"name"`
	UnitPrice    int64      `json:"unit_price" db:"unit_price"`
	Capacity     int        `json:"capacity" db:"capacity"`
	Sold         int        `json:"sold" db:"sold"`
	Held         int        `json:"held" db:"held"`
	MinPerOrder  int        `json:"min_per_order" db:"min_per_order"`
	MaxPerOrder  int        `json:"max_per_order" db:"max_per_order"`
	SaleStartsAt *time.Time `json:"sale_starts_at,omitempty" db:"sale_starts_at"`
	SaleEndsAt   *time.Time `json:"sale_ends_at,omitempty" db:"sale_ends_at"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Available 剩餘可售數量
func (t *TicketType) Available() int {
	return t.Capacity - t.Sold - t.Held
}

// SaleWindowOpen reports whether now falls inside [SaleStartsAt, SaleEndsAt].
// A nil bound leaves that side of the window open.
func (t *TicketType) SaleWindowOpen(now time.Time) bool {
	if t.SaleStartsAt != nil && now.Before(*t.SaleStartsAt) {
		return false
	}
	if t.SaleEndsAt != nil && now.After(*t.SaleEndsAt) {
		return false
	}
	return true
}

// QuantityBounds 回傳該票種每筆訂單的數量上下限；欄位為 0 時使用設定預設值
func (t *TicketType) QuantityBounds(defaultMin, defaultMax int) (int, int) {
	min, max := t.MinPerOrder, t.MaxPerOrder
	if min <= 0 {
		min = defaultMin
	}
	if max <= 0 {
		max = defaultMax
	}
	return min, max
}

// Availability 庫存查詢結果
type Availability struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Capacity     int       `json:"capacity"`
	Sold         int       `json:"sold"`
	Held         int       `json:"held"`
	Available    int       `json:"available"`
}
