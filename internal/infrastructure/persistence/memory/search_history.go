package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/boipara/bookstore/internal/domain/search"
)

type SearchHistory struct {
	mu      sync.Mutex
	byUser  map[uint][]string
	maxSize int
}

// NewSearchHistory creates an in-process search history.
func NewSearchHistory() *SearchHistory {
	return &SearchHistory{byUser: make(map[uint][]string), maxSize: search.MaxHistory}
}

func (h *SearchHistory) Record(_ context.Context, userID uint, query string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := make([]string, 0, h.maxSize)
	list = append(list, query)
	for _, q := range h.byUser[userID] {
		if q != query && len(list) < h.maxSize {
			list = append(list, q)
		}
	}
	h.byUser[userID] = list
	return nil
}

func (h *SearchHistory) Recent(_ context.Context, userID uint, limit int) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.byUser[userID]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return append([]string(nil), list...), nil
}

func (h *SearchHistory) Clear(_ context.Context, userID uint) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.byUser, userID)
	return nil
}

// QueryCounter counts raw queries in memory.
type QueryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewQueryCounter creates an in-process query counter.
func NewQueryCounter() *QueryCounter {
	return &QueryCounter{counts: make(map[string]int)}
}

func (c *QueryCounter) Increment(_ context.Context, query string) error {
	c.mu.Lock()
	c.counts[query]++
	c.mu.Unlock()
	return nil
}

// Top returns the n most counted queries; ties break alphabetically.
func (c *QueryCounter) Top(_ context.Context, n int) ([]string, error) {
	c.mu.Lock()
	queries := make([]string, 0, len(c.counts))
	for q := range c.counts {
		queries = append(queries, q)
	}
	counts := make(map[string]int, len(c.counts))
	for q, v := range c.counts {
		counts[q] = v
	}
	c.mu.Unlock()

	sort.Slice(queries, func(i, j int) bool {
		if counts[queries[i]] != counts[queries[j]] {
			return counts[queries[i]] > counts[queries[j]]
		}
		return queries[i] < queries[j]
	})
	if n >= 0 && n < len(queries) {
		queries = queries[:n]
	}
	return queries, nil
}
