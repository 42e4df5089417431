// Package memory holds single-process implementations of the search stores.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/boipara/bookstore/internal/domain/search"
)

type cacheEntry struct {
	value     []search.Suggestion
	expiresAt time.Time
}

// SuggestionCache is a bounded TTL cache. When full, the oldest inserted key goes.
type SuggestionCache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	order    []string
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewSuggestionCache creates an in-process cache of at most capacity entries.
func NewSuggestionCache(ttl time.Duration, capacity int) *SuggestionCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &SuggestionCache{
		entries:  make(map[string]cacheEntry, capacity),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

func (c *SuggestionCache) Get(_ context.Context, key string) ([]search.Suggestion, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *SuggestionCache) Set(_ context.Context, key string, value []search.Suggestion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		for len(c.order) >= c.capacity {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *SuggestionCache) Evict(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
	return nil
}

func (c *SuggestionCache) Sweep(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.order[:0]
	removed := 0
	for _, key := range c.order {
		if now.Before(c.entries[key].expiresAt) {
			kept = append(kept, key)
			continue
		}
		delete(c.entries, key)
		removed++
	}
	c.order = kept
	return removed, nil
}

func (c *SuggestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with mu held.
func (c *SuggestionCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
