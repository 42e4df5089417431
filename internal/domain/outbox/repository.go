package outbox

import (
	"context"
)

type Repository interface {
	// Save inserts entries; it joins a transaction carried in ctx.
	Save(ctx context.Context, entries []*Entry) error

	// FetchPending returns up to limit pending entries, oldest first.
	FetchPending(ctx context.Context, limit int) ([]*Entry, error)

	// UpdateResult persists status, attempts, error and dispatch time.
	UpdateResult(ctx context.Context, entry *Entry) error
}

// Waker is poked after a transaction that saved entries commits, so dispatch
// starts without waiting for the next poll.
type Waker interface {
	Wake()
}

// NopWaker leaves dispatch to polling.
type NopWaker struct{}

func (NopWaker) Wake() {}
