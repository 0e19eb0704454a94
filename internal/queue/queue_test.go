package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"notice_id": "n1"})
	require.NoError(t, q.Publish(ctx, Message{Type: EventNoticeCreated, Body: body}))

	select {
	case got := <-msgs:
		assert.Equal(t, EventNoticeCreated, got.Type)
		assert.JSONEq(t, `{"notice_id":"n1"}`, string(got.Body))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishHonorsCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, q.Publish(ctx, Message{Type: EventNoticeCreated}))
	cancel()

	// Buffer is full and the context is done; publish must not block.
	err := q.Publish(ctx, Message{Type: EventNoticeCreated})
	assert.ErrorIs(t, err, context.Canceled)
}
