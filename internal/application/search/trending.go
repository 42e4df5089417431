package search

import (
	"context"
	"time"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/search"
)

type orderTrending struct {
	orders order.Repository
	books  book.Repository
}

// NewOrderTrending ranks titles by quantity ordered. Books that no longer exist
// are skipped, so a few extra rows are read to fill limit.
func NewOrderTrending(orders order.Repository, books book.Repository) search.TrendingSource {
	return &orderTrending{orders: orders, books: books}
}

func (t *orderTrending) TrendingTitles(ctx context.Context, since time.Time, limit int) ([]string, error) {
	sales, err := t.orders.TopBooksSince(ctx, since, limit*2)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(sales))
	for i, s := range sales {
		ids[i] = s.BookID
	}
	books, err := t.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, limit)
	for _, s := range sales {
		b, ok := books[s.BookID]
		if !ok {
			continue
		}
		titles = append(titles, b.Title)
		if len(titles) == limit {
			break
		}
	}
	return titles, nil
}
