package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus 活動生命週期狀態
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusFinished  EventStatus = "finished"
)

// IsSellable 只有已發布的活動可以販售
func (s EventStatus) IsSellable() bool {
	return s == EventStatusPublished
}

type Event struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Status    EventStatus `json:"status" db:"status"`
	StartsAt  time.Time   `json:"starts_at" db:"starts_at"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
