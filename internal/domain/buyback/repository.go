package buyback

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error

	FindByID(ctx context.Context, id uint) (*Request, error)

	// Update persists status, prices, stock and notes.
	Update(ctx context.Context, r *Request) error

	// AdjustStock adds delta to stock iff the result stays >= 0; going below zero
	// returns ErrInsufficientStock. Reaching zero from approved moves the request to sold.
	AdjustStock(ctx context.Context, id uint, delta int) error

	List(ctx context.Context, filter ListFilter) ([]*Request, int64, error)
}

type ListFilter struct {
	UserID        uint
	Status        Status
	AvailableOnly bool
	Page          int
	PageSize      int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}
