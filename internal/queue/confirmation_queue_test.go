package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := NewMemoryConfirmationQueue(4)
	sent := newConfirmation()
	require.NoError(t, q.Publish(ctx, sent))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)
	assert.Equal(t, sent, d.Data)
	d.Ack()
}

func TestMemoryQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := NewMemoryConfirmationQueue(1)
	sent := newConfirmation()
	require.NoError(t, q.Publish(ctx, sent))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	receive(t, ctx, ch).Nack(true)
	again := receive(t, ctx, ch)
	assert.Equal(t, sent.ReservationID, again.Data.ReservationID)
}

func TestMemoryQueue_PublishRespectsContext(t *testing.T) {
	q := NewMemoryConfirmationQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Publish(ctx, newConfirmation())
	assert.ErrorIs(t, err, context.Canceled)
}
