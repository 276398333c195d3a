package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus 保留單狀態類型
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusExpired   ReservationStatus = "expired"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusActive, ReservationStatusCompleted, ReservationStatusExpired, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsTerminal completed, expired and cancelled admit no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s.IsValid() && s != ReservationStatusActive
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusActive:    {ReservationStatusCompleted, ReservationStatusExpired, ReservationStatusCancelled},
		ReservationStatusCompleted: {},
		ReservationStatusExpired:   {},
		ReservationStatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// ReservationItem 保留單明細，unit_price 為保留當下的價格
type ReservationItem struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id" db:"ticket_type_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    int64     `json:"unit_price" db:"unit_price"`
}

// Reservation 保留單模型
type Reservation struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	UserID      uuid.UUID         `json:"user_id" db:"user_id"`
	EventID     uuid.UUID         `json:"event_id" db:"event_id"`
	Status      ReservationStatus `json:"status" db:"status"`
	TotalAmount int64             `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at" db:"expires_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`

	Items []ReservationItem `json:"items" db:"-"`
}

// IsExpiredAt reports whether the hold has lapsed; the boundary instant is
// still inside the TTL.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// CartItem 購物車明細
type CartItem struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id" binding:"required"`
	Quantity     int       `json:"quantity"`
}

// CreateReservationRequest 建立保留單請求
type CreateReservationRequest struct {
	UserID  uuid.UUID  `json:"-"`
	EventID uuid.UUID  `json:"event_id" binding:"required"`
	Items   []CartItem `json:"items"`
}

// ReservationResponse 保留單響應
type ReservationResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	TotalAmount   int64     `json:"total_amount"`
}

func NewReservationResponse(r *Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ID,
		Status:        string(r.Status),
		ExpiresAt:     r.ExpiresAt,
		TotalAmount:   r.TotalAmount,
	}
}

// MergeCartItems folds lines naming the same ticket type into one, summing
// their quantities, preserving first-seen order. Callers validate each line
// first; the sum saturates at math.MaxInt instead of wrapping.
func MergeCartItems(items []CartItem) []CartItem {
	merged := make([]CartItem, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if i, ok := index[item.TicketTypeID]; ok {
			merged[i].Quantity = saturatingAdd(merged[i].Quantity, item.Quantity)
			continue
		}
		index[item.TicketTypeID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}
