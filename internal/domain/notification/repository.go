package notification

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error

	FindByID(ctx context.Context, id uint) (*Notification, error)

	// ListByUser returns the newest notifications first.
	ListByUser(ctx context.Context, userID uint, limit int) ([]*Notification, error)

	MarkRead(ctx context.Context, id uint) error

	// MarkAllRead returns how many records changed.
	MarkAllRead(ctx context.Context, userID uint) (int64, error)

	Delete(ctx context.Context, id uint) error

	CountUnread(ctx context.Context, userID uint) (int64, error)
}
