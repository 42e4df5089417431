package book

import (
	"context"
)

// Repository is the catalog store.
//
// Every method honours a transaction carried in ctx, so stock changes can join
// the order transaction.
type Repository interface {
	Create(ctx context.Context, book *Book) error

	// CreateBatch inserts all books or none.
	CreateBatch(ctx context.Context, books []*Book) error

	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs returns the books that exist, keyed by id.
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// Update writes the descriptive and pricing fields. Stock is never written
	// here; use SetStock or UpdateStock.
	Update(ctx context.Context, book *Book) error

	// SetStock overwrites stock with an absolute value chosen by the seller.
	SetStock(ctx context.Context, id uint, stock int) error

	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	ListFeatured(ctx context.Context, limit int) ([]*Book, error)

	ListBestsellers(ctx context.Context, limit int) ([]*Book, error)

	// UpdateStock adds delta to stock iff the result stays >= 0.
	// A negative delta that would go below zero returns ErrInsufficientStock.
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// Sort orders for List.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListParams struct {
	Page      int
	PageSize  int
	Keyword   string // title, author or ISBN substring
	Category  string
	Condition Condition
	MinPrice  int64
	MaxPrice  int64
	SellerID  uint
	InStock   bool
	SortBy    string
}

// Normalize clamps paging to sane bounds.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}
