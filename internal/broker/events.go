package broker

import (
	"context"
	"time"

	"go-gin-ticket-reservation/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationExpired   EventType = "reservation.expired"
	EventOrderFinalized       EventType = "order.finalized"
	EventPaymentOrphaned      EventType = "payment.orphaned"
)

// Event 領域事件，於交易提交後發送；發送失敗不影響已提交的狀態
type Event struct {
	ID            uuid.UUID      `json:"id"`
	Type          EventType      `json:"type"`
	ReservationID uuid.UUID      `json:"reservation_id"`
	UserID        uuid.UUID      `json:"user_id,omitempty"`
	OrderID       *uuid.UUID     `json:"order_id,omitempty"`
	Amount        int64          `json:"amount,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

func NewEvent(eventType EventType, reservationID uuid.UUID, now time.Time) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		ReservationID: reservationID,
		OccurredAt:    now,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                  { return nil }

// PublishBestEffort logs and swallows publish errors.
func PublishBestEffort(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.WithComponent("broker").Warn("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("reservation_id", event.ReservationID.String()),
			zap.Error(err),
		)
	}
}
