package queue

import (
	"context"
	"sync"
)

// MemoryReadyQueue is a process-local ReadyQueue. All operations share one
// mutex and never return an error.
type MemoryReadyQueue struct {
	mu    sync.Mutex
	items []string
}

func NewMemoryReadyQueue() *MemoryReadyQueue {
	return &MemoryReadyQueue{}
}

func (q *MemoryReadyQueue) Push(_ context.Context, accountNumber string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, accountNumber)
	return nil
}

func (q *MemoryReadyQueue) Pop(_ context.Context) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return "", false, nil
	}

	head := q.items[0]
	q.items[0] = ""
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return head, true, nil
}

func (q *MemoryReadyQueue) IsEmpty(_ context.Context) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items) == 0, nil
}

func (q *MemoryReadyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}
