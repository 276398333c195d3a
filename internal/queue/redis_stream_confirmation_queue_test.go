package queue

import (
	"context"
	"testing"
	"time"

	"go-gin-ticket-reservation/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func fastConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   100 * time.Millisecond,
		MaxRetryCount:      2,
		ReadGroupBlockTime: 50 * time.Millisecond,
	}
}

func newConfirmation() *model.PaymentConfirmation {
	return &model.PaymentConfirmation{
		ReservationID: uuid.New(),
		ProviderRef:   "pi_test",
		Amount:        4500,
		Currency:      "ars",
		PaidAt:        time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func receive(t *testing.T, ctx context.Context, ch <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "channel closed before delivery")
		return d
	case <-ctx.Done():
		t.Fatal("timeout 未收到訊息")
		return Delivery{}
	}
}

// --- 1. 建構 ---

func TestNewRedisStreamConfirmationQueue(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "test-consumer", RedisStreamConfig{})
	require.NoError(t, err)
	assert.Equal(t, "finalizer:test-consumer", q.consumerName)
	assert.Equal(t, 5, q.cfg.MaxRetryCount)
	assert.True(t, mr.Exists(StreamKey))

	// consumer group 已存在時不可失敗
	q2, err := NewRedisStreamConfirmationQueue(ctx, client, "", RedisStreamConfig{})
	require.NoError(t, err)
	assert.NotEqual(t, q.consumerName, q2.consumerName)
}

// --- 2. 發送與訂閱：收到的內容與送出的一致 ---

func TestRedisStream_DeliversPublishedConfirmation(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "deliver-test", fastConfig())
	require.NoError(t, err)

	sent := newConfirmation()
	require.NoError(t, q.Publish(ctx, sent))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)
	require.NotNil(t, d.Data)
	assert.Equal(t, sent.ReservationID, d.Data.ReservationID)
	assert.Equal(t, sent.ProviderRef, d.Data.ProviderRef)
	assert.Equal(t, sent.Amount, d.Data.Amount)
	assert.Equal(t, sent.Currency, d.Data.Currency)
	assert.True(t, sent.PaidAt.Equal(d.Data.PaidAt))
	d.Ack()
}

// --- 3. Ack 後不再投遞 ---

func TestRedisStream_AckPreventsRedelivery(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "ack-test", fastConfig())
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, newConfirmation()))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, ctx, ch).Ack()

	select {
	case d := <-ch:
		t.Fatalf("Ack 後不應再收到: %v", d.Data.ReservationID)
	case <-time.After(500 * time.Millisecond):
	}

	pending, err := client.XPending(ctx, StreamKey, ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// 重試耗盡的確認保留在 dead-letter stream，並通知 OnDiscard
func TestRedisStream_PoisonMessageDeadLettered(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	discarded := make(chan *model.PaymentConfirmation, 1)
	cfg := fastConfig()
	cfg.OnDiscard = func(ctx context.Context, messageID string, confirmation *model.PaymentConfirmation) {
		discarded <- confirmation
	}

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "dead-letter-test", cfg)
	require.NoError(t, err)
	sent := newConfirmation()
	require.NoError(t, q.Publish(ctx, sent))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	var got *model.PaymentConfirmation
loop:
	for {
		select {
		case d := <-ch:
			d.Nack(true)
		case got = <-discarded:
			break loop
		case <-ctx.Done():
			t.Fatal("timeout 未移入 dead-letter stream")
		}
	}

	require.NotNil(t, got)
	assert.Equal(t, sent.ReservationID, got.ReservationID)
	assert.Equal(t, sent.ProviderRef, got.ProviderRef)

	entries, err := client.XRange(ctx, DeadLetterKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Values["source_id"])
	assert.Contains(t, entries[0].Values[payloadField], sent.ReservationID.String())

	pending, err := client.XPending(ctx, StreamKey, ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// --- 4. Nack(requeue) 後由 XAUTOCLAIM 重新投遞 ---

func TestRedisStream_NackRequeueRedelivers(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "nack-test", fastConfig())
	require.NoError(t, err)

	sent := newConfirmation()
	require.NoError(t, q.Publish(ctx, sent))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	first := receive(t, ctx, ch)
	first.Nack(true)

	second := receive(t, ctx, ch)
	assert.Equal(t, sent.ReservationID, second.Data.ReservationID)
	second.Ack()
}

// --- 5. Nack(false) 直接丟棄 ---

func TestRedisStream_NackDiscard(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "discard-test", fastConfig())
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, newConfirmation()))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, ctx, ch).Nack(false)

	select {
	case <-ch:
		t.Fatal("丟棄後不應再投遞")
	case <-time.After(500 * time.Millisecond):
	}
}

// --- 6. 毒藥消息：超過重試上限後不再投遞 ---

func TestRedisStream_PoisonMessageDiscarded(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "poison-test", fastConfig())
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, newConfirmation()))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	deliveries := 0
	timeout := time.After(2 * time.Second)
loop:
	for {
		select {
		case d := <-ch:
			deliveries++
			d.Nack(true)
		case <-timeout:
			break loop
		}
	}

	// 首次投遞加上最多 MaxRetryCount 次重試
	assert.GreaterOrEqual(t, deliveries, 2)
	assert.LessOrEqual(t, deliveries, 1+fastConfig().MaxRetryCount)

	pending, err := client.XPending(ctx, StreamKey, ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// --- 7. 格式錯誤的訊息直接 Ack 掉 ---

func TestRedisStream_MalformedMessageSkipped(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "malformed-test", fastConfig())
	require.NoError(t, err)

	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{payloadField: "{not json"},
	}).Err())
	sent := newConfirmation()
	require.NoError(t, q.Publish(ctx, sent))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)
	assert.Equal(t, sent.ReservationID, d.Data.ReservationID)
	d.Ack()
}

func TestRedisStream_SubscribeClosesOnCancel(t *testing.T) {
	client, _ := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	q, err := NewRedisStreamConfirmationQueue(ctx, client, "close-test", fastConfig())
	require.NoError(t, err)

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel 未在 cancel 後關閉")
	}
}
