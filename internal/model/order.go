package model

import (
	"time"

	"github.com/google/uuid"
)

// Order 由完成的保留單建立，建立後不可變
type Order struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ReservationID uuid.UUID `json:"reservation_id" db:"reservation_id"`
	BuyerID       uuid.UUID `json:"buyer_id" db:"buyer_id"`
	TotalAmount   int64     `json:"total_amount" db:"total_amount"`
	Currency      string    `json:"currency" db:"currency"`
	PaidAt        time.Time `json:"paid_at" db:"paid_at"`
	ProviderRef   string    `json:"provider_ref" db:"provider_ref"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Tickets []*Ticket `json:"tickets,omitempty" db:"-"`
}

// PaymentConfirmation 金流服務商確認付款後送入結帳流程的內容
type PaymentConfirmation struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ProviderRef   string    `json:"provider_ref"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paid_at"`
}

// CheckoutSession 建立付款意圖後回傳給客戶端
type CheckoutSession struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ProviderRef   string    `json:"provider_ref"`
	ClientSecret  string    `json:"client_secret"`
	ExpiresAt     time.Time `json:"expires_at"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
}

// NewTickets 依保留單明細，每一張實體票建立一筆 Ticket，核銷碼為隨機 UUID
func NewTickets(orderID uuid.UUID, items []ReservationItem, now time.Time) []*Ticket {
	tickets := make([]*Ticket, 0)
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			tickets = append(tickets, &Ticket{
				ID:           uuid.New(),
				OrderID:      orderID,
				TicketTypeID: item.TicketTypeID,
				Code:         uuid.NewString(),
				Status:       TicketStatusValid,
				CreatedAt:    now,
			})
		}
	}
	return tickets
}
