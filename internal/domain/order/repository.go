package order

import (
	"context"
	"time"
)

type Repository interface {
	// Create persists the order with its items.
	Create(ctx context.Context, order *Order) error

	FindByID(ctx context.Context, id uint) (*Order, error)

	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// UpdateStatus writes status (and cancelled_at) only if the stored status is
	// still from; otherwise it returns ErrInvalidStatusTransition.
	UpdateStatus(ctx context.Context, order *Order, from Status) error

	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// ListBySeller returns orders containing at least one item of sellerID.
	ListBySeller(ctx context.Context, sellerID uint, filter ListFilter) ([]*Order, int64, error)

	ListAll(ctx context.Context, filter ListFilter) ([]*Order, int64, error)

	// TopBooksSince sums ordered quantity per book for orders created at or after since.
	TopBooksSince(ctx context.Context, since time.Time, limit int) ([]BookSales, error)
}

type ListFilter struct {
	Status   Status
	Page     int
	PageSize int
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

type BookSales struct {
	BookID   uint
	Quantity int
}
