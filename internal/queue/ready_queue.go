package queue

import "context"

// ReadyQueue is a FIFO of account numbers believed to be claimable. It is a
// cache in front of the store; the store's status column stays authoritative.
type ReadyQueue interface {
	Push(ctx context.Context, accountNumber string) error

	// Pop returns ok=false when the queue holds nothing.
	Pop(ctx context.Context) (accountNumber string, ok bool, err error)

	IsEmpty(ctx context.Context) (bool, error)
}
