package queue

import (
	"context"

	"go-gin-ticket-reservation/internal/model"
)

// Delivery 一筆待處理的付款確認；處理完必須呼叫 Ack 或 Nack 其中之一
type Delivery struct {
	Data *model.PaymentConfirmation
	Ack  func()
	Nack func(requeue bool)
}

// ConfirmationQueue 在 webhook 與結帳 worker 之間緩衝付款確認。
// 投遞語意為 at-least-once，消費端必須冪等。
type ConfirmationQueue interface {
	Publish(ctx context.Context, confirmation *model.PaymentConfirmation) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryConfirmationQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.PaymentConfirmation
}

func NewMemoryConfirmationQueue(bufferSize int) *MemoryConfirmationQueue {
	return &MemoryConfirmationQueue{
		ch: make(chan *model.PaymentConfirmation, bufferSize),
	}
}

func (q *MemoryConfirmationQueue) Publish(ctx context.Context, confirmation *model.PaymentConfirmation) error {
	select {
	case q.ch <- confirmation:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryConfirmationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case confirmation := <-q.ch:
				d := Delivery{
					Data: confirmation,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 另起 goroutine 重新排入，避免 buffer 滿時卡住 worker
							go func() { _ = q.Publish(ctx, confirmation) }()
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
