package returns

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, r *Return) error

	FindByID(ctx context.Context, id uint) (*Return, error)

	// Update persists status and the admin/seller/refund fields.
	Update(ctx context.Context, r *Return) error

	// HasOpenForOrder reports whether an open return exists for orderID.
	HasOpenForOrder(ctx context.Context, orderID uint) (bool, error)

	List(ctx context.Context, filter ListFilter) ([]*Return, int64, error)
}

// ListFilter scopes a listing; zero ids mean "any".
type ListFilter struct {
	UserID   uint
	SellerID uint
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
