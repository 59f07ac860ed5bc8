package queue

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisReadyQueue keeps the ready accounts in a Redis list so several server
// processes can share one queue. RPUSH appends, LPOP takes the head.
type RedisReadyQueue struct {
	client rueidis.Client
	key    string
}

func NewRedisReadyQueue(client rueidis.Client, queueKey string) *RedisReadyQueue {
	return &RedisReadyQueue{
		client: client,
		key:    queueKey,
	}
}

func (r *RedisReadyQueue) Push(ctx context.Context, accountNumber string) error {
	cmd := r.client.B().Rpush().Key(r.key).Element(accountNumber).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisReadyQueue) Pop(ctx context.Context) (string, bool, error) {
	cmd := r.client.B().Lpop().Key(r.key).Build()
	accountNumber, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, err
	}

	return accountNumber, true, nil
}

func (r *RedisReadyQueue) IsEmpty(ctx context.Context) (bool, error) {
	cmd := r.client.B().Llen().Key(r.key).Build()
	n, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, err
	}

	return n == 0, nil
}

// Reset drops every queued account number.
func (r *RedisReadyQueue) Reset(ctx context.Context) error {
	cmd := r.client.B().Del().Key(r.key).Build()
	return r.client.Do(ctx, cmd).Error()
}
