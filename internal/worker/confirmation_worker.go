package worker

import (
	"context"
	"errors"

	"go-gin-ticket-reservation/internal/broker"
	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/queue"
	"go-gin-ticket-reservation/internal/service"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/logger"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Finalizer 是 worker 唯一需要的結帳能力
type Finalizer interface {
	Finalize(ctx context.Context, confirmation model.PaymentConfirmation) (*model.Order, error)
}

type ConfirmationWorker interface {
	// 訂閱付款確認隊列，ctx 結束時停止
	Start(ctx context.Context) error
	// Done 在所有已領取的確認處理完後關閉
	Done() <-chan struct{}
}

type ConfirmationWorkerImpl struct {
	finalizer Finalizer
	queue     queue.ConfirmationQueue
	publisher broker.Publisher
	clock     clockwork.Clock
	log       *zap.Logger
	done      chan struct{}
}

func NewConfirmationWorker(finalizer Finalizer, queue queue.ConfirmationQueue, publisher broker.Publisher, clock clockwork.Clock) ConfirmationWorker {
	return &ConfirmationWorkerImpl{
		finalizer: finalizer,
		queue:     queue,
		publisher: publisher,
		clock:     clock,
		log:       logger.WithComponent("worker"),
		done:      make(chan struct{}),
	}
}

func (w *ConfirmationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *ConfirmationWorkerImpl) Done() <-chan struct{} {
	return w.done
}

// handle 決定每筆確認的去向：
// 成功或終態錯誤 Ack；Contention 與未預期錯誤 Nack 重試
func (w *ConfirmationWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	confirmation := msg.Data
	fields := []zap.Field{
		zap.String("reservation_id", confirmation.ReservationID.String()),
		zap.String("provider_ref", confirmation.ProviderRef),
	}

	order, err := w.finalizer.Finalize(ctx, *confirmation)
	switch {
	case err == nil:
		w.log.Debug("confirmation processed", append(fields, zap.String("order_id", order.ID.String()))...)
		msg.Ack()

	case service.IsOrphanedPayment(err):
		// 已付款但保留單無法完成，交由外部退款流程
		w.log.Warn("payment received for inactive reservation", append(fields, zap.String("kind", apperrors.Kind(err)))...)
		publishOrphaned(ctx, w.publisher, w.clock, confirmation, apperrors.Kind(err))
		msg.Ack()

	case errors.Is(err, apperrors.ErrReservationNotFound):
		w.log.Warn("confirmation for unknown reservation", fields...)
		msg.Ack()

	default:
		w.log.Error("finalize failed, will retry", append(fields, zap.Error(err))...)
		msg.Nack(true)
	}
}

// ReasonRetriesExhausted 標記因重試耗盡而進入 dead-letter 的已付款確認
const ReasonRetriesExhausted = "RetriesExhausted"

// DeadLetterNotifier 給 RedisStreamConfig.OnDiscard 使用：
// 已付款的確認被移出佇列時發出 payment.orphaned，讓退款流程接手
func DeadLetterNotifier(publisher broker.Publisher, clock clockwork.Clock) func(ctx context.Context, messageID string, confirmation *model.PaymentConfirmation) {
	log := logger.WithComponent("worker")
	return func(ctx context.Context, messageID string, confirmation *model.PaymentConfirmation) {
		if confirmation == nil {
			log.Error("dead-lettered confirmation has no readable payload", zap.String("message_id", messageID))
			return
		}
		log.Error("confirmation retries exhausted",
			zap.String("message_id", messageID),
			zap.String("reservation_id", confirmation.ReservationID.String()),
			zap.String("provider_ref", confirmation.ProviderRef),
		)
		publishOrphaned(ctx, publisher, clock, confirmation, ReasonRetriesExhausted)
	}
}

func publishOrphaned(ctx context.Context, publisher broker.Publisher, clock clockwork.Clock, confirmation *model.PaymentConfirmation, reason string) {
	event := broker.NewEvent(broker.EventPaymentOrphaned, confirmation.ReservationID, clock.Now().UTC())
	event.Amount = confirmation.Amount
	event.Data = map[string]any{
		"provider_ref": confirmation.ProviderRef,
		"currency":     confirmation.Currency,
		"reason":       reason,
	}
	broker.PublishBestEffort(ctx, publisher, event)
}
