package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "payments:confirmations"
	DeadLetterKey      = "payments:confirmations:dead"
	ConsumerGroupName  = "checkout-finalizers"
	ConsumerNamePrefix = "finalizer"

	payloadField = "confirmation"
)

// RedisStreamConfig 可注入的逾時與重試設定；零值欄位使用預設
type RedisStreamConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數視為毒藥消息，移入 dead-letter stream
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間

	// OnDiscard 在毒藥消息移入 dead-letter stream 後呼叫；payload 無法解析時 confirmation 為 nil
	OnDiscard func(ctx context.Context, messageID string, confirmation *model.PaymentConfirmation)
}

func defaultRedisStreamConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

type RedisStreamConfirmationQueue struct {
	client        *redis.Client
	streamKey     string
	deadLetterKey string
	groupName     string
	consumerName  string
	cfg           RedisStreamConfig
	log           *zap.Logger
}

// NewRedisStreamConfirmationQueue 建立 consumer group（不存在時連同 stream 一起建立）
func NewRedisStreamConfirmationQueue(ctx context.Context, client *redis.Client, consumerID string, config RedisStreamConfig) (*RedisStreamConfirmationQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config.ClaimMinIdleTime > 0 {
		cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
	}
	if config.MaxRetryCount > 0 {
		cfg.MaxRetryCount = config.MaxRetryCount
	}
	if config.ReadGroupBlockTime > 0 {
		cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
	}
	cfg.OnDiscard = config.OnDiscard

	q := &RedisStreamConfirmationQueue{
		client:        client,
		streamKey:     StreamKey,
		deadLetterKey: DeadLetterKey,
		groupName:     ConsumerGroupName,
		consumerName:  fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:           cfg,
		log:           logger.WithComponent("mq"),
	}
	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamConfirmationQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (q *RedisStreamConfirmationQueue) Publish(ctx context.Context, confirmation *model.PaymentConfirmation) error {
	payload, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}
	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     "*",
		Values: map[string]interface{}{payloadField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamConfirmationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		done := make(chan struct{})
		go func() {
			defer close(done)
			q.runAutoClaim(ctx, out)
		}()
		q.runReadLoop(ctx, out)
		<-done
	}()
	return out, nil
}

func (q *RedisStreamConfirmationQueue) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, out)
		}
	}
}

// readAndDeliver 只讀 ">"（新訊息）。已投遞但未 Ack 的訊息留在 PEL，
// 由 XAUTOCLAIM 超時後領回重試。
func (q *RedisStreamConfirmationQueue) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		q.log.Error("XReadGroup failed", zap.Error(err))
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			if !q.deliver(ctx, out, msg) {
				return
			}
		}
	}
}

// deliver 回傳 false 表示 ctx 已取消
func (q *RedisStreamConfirmationQueue) deliver(ctx context.Context, out chan<- Delivery, msg redis.XMessage) bool {
	d := q.newDelivery(ctx, msg)
	if d == nil {
		return true
	}
	select {
	case out <- *d:
		return true
	case <-ctx.Done():
		return false
	}
}

// shouldRetry 判斷 PEL 中的訊息是否已超過重試上限（毒藥消息）。
// 毒藥消息已付款，不能直接丟掉：先移到 dead-letter stream 再 Ack。
func (q *RedisStreamConfirmationQueue) shouldRetry(ctx context.Context, msg redis.XMessage) bool {
	n, err := q.deliveryCount(ctx, msg.ID)
	if err != nil {
		q.log.Warn("delivery count lookup failed", zap.String("message_id", msg.ID), zap.Error(err))
		return true
	}
	// XAUTOCLAIM 已把本次領取計入 delivery count，首次投遞不算重試
	if n-1 <= q.cfg.MaxRetryCount {
		return true
	}

	if err := q.deadLetter(ctx, msg, n); err != nil {
		// 留在 PEL，下一輪 XAUTOCLAIM 再試
		q.log.Error("move poison confirmation to dead letter failed", zap.String("message_id", msg.ID), zap.Error(err))
		return false
	}
	q.log.Error("poison confirmation moved to dead letter",
		zap.String("message_id", msg.ID),
		zap.String("dead_letter_stream", q.deadLetterKey),
		zap.Int("deliveries", n),
		zap.Int("max_retries", q.cfg.MaxRetryCount),
	)

	if q.cfg.OnDiscard != nil {
		confirmation, _ := decodeConfirmation(msg)
		q.cfg.OnDiscard(ctx, msg.ID, confirmation)
	}
	return false
}

// deadLetter 以 MULTI/EXEC 同時寫入 dead-letter stream 與 Ack 原訊息
func (q *RedisStreamConfirmationQueue) deadLetter(ctx context.Context, msg redis.XMessage, deliveries int) error {
	values := map[string]interface{}{
		"source_id":  msg.ID,
		"deliveries": deliveries,
	}
	if payload, ok := msg.Values[payloadField].(string); ok {
		values[payloadField] = payload
	}
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: q.deadLetterKey, ID: "*", Values: values})
		pipe.XAck(ctx, q.streamKey, q.groupName, msg.ID)
		return nil
	})
	return err
}

func decodeConfirmation(msg redis.XMessage) (*model.PaymentConfirmation, error) {
	payload, ok := msg.Values[payloadField].(string)
	if !ok {
		return nil, errors.New("missing confirmation field")
	}
	var confirmation model.PaymentConfirmation
	if err := json.Unmarshal([]byte(payload), &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (q *RedisStreamConfirmationQueue) deliveryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

// runAutoClaim 定時用 XAUTOCLAIM 領取超時未 Ack 的訊息，形成延遲重試
func (q *RedisStreamConfirmationQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && !errors.Is(err, redis.Nil) {
				if ctx.Err() == nil {
					q.log.Error("XAutoClaim failed", zap.Error(err))
				}
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if !q.shouldRetry(ctx, msg) {
					continue
				}
				if !q.deliver(ctx, out, msg) {
					return
				}
			}
		}
	}
}

func (q *RedisStreamConfirmationQueue) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	confirmation, err := decodeConfirmation(msg)
	if err != nil {
		q.log.Warn("invalid confirmation message", zap.String("message_id", msg.ID), zap.Error(err))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil
	}

	msgID := msg.ID
	return &Delivery{
		Data: confirmation,
		Ack: func() {
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				q.log.Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 留在 PEL，ClaimMinIdleTime 後由 XAUTOCLAIM 領回
				q.log.Info("confirmation nack, will retry",
					zap.String("message_id", msgID),
					zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime),
				)
				return
			}
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				q.log.Error("XAck discard failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
	}
}
