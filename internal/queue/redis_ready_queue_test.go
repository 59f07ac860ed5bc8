package queue

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisQueue(t *testing.T) *RedisReadyQueue {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{addr}})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	q := NewRedisReadyQueue(client, fmt.Sprintf("test_ready_queue_%s", t.Name()))
	require.NoError(t, q.Reset(context.Background()))
	t.Cleanup(func() { _ = q.Reset(context.Background()) })
	return q
}

func TestRedisReadyQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := newTestRedisQueue(t)

	empty, err := q.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, q.Push(ctx, "220000000101"))
	require.NoError(t, q.Push(ctx, "220000000102"))

	empty, err = q.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)

	got, ok, err := q.Pop(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "220000000101", got)

	got, ok, err = q.Pop(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "220000000102", got)

	_, ok, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
