package search

import (
	"context"
	"time"
)

// Repository runs the ranked catalog query.
type Repository interface {
	// Suggest returns at most q.Limit matches ordered by score desc, title asc.
	Suggest(ctx context.Context, q Query) ([]Suggestion, error)
}

// Cache stores suggestion lists by escaped query.
// Implementations bound their size and expire entries after a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]Suggestion, bool, error)
	Set(ctx context.Context, key string, value []Suggestion) error
	Evict(ctx context.Context, key string) error
	// Sweep drops expired entries and returns how many were removed.
	Sweep(ctx context.Context) (int, error)
}

// HistoryStore keeps each user's recent searches, newest first, de-duplicated.
type HistoryStore interface {
	Record(ctx context.Context, userID uint, query string) error
	Recent(ctx context.Context, userID uint, limit int) ([]string, error)
	Clear(ctx context.Context, userID uint) error
}

// QueryCounter counts raw queries for the popular list.
type QueryCounter interface {
	Increment(ctx context.Context, query string) error
	Top(ctx context.Context, n int) ([]string, error)
}

// TrendingSource returns titles of the most ordered books since a point in time.
type TrendingSource interface {
	TrendingTitles(ctx context.Context, since time.Time, limit int) ([]string, error)
}
