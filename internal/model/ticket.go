package model

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusValid     TicketStatus = "valid"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket 已開立的票券，code 為唯一的核銷碼 (QR payload)
type Ticket struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	OrderID      uuid.UUID    `json:"order_id" db:"order_id"`
	TicketTypeID uuid.UUID    `json:"ticket_type_id" db:"ticket_type_id"`
	Code         string       `json:"code" db:"code"`
	Status       TicketStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
