package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/boipara/bookstore/internal/domain/search"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// SearchHistory keeps one capped list per user, newest at the head.
type SearchHistory struct {
	client *redis.Client
}

// NewSearchHistory creates per-user search history stored in Redis.
func NewSearchHistory(client *redis.Client) *SearchHistory {
	return &SearchHistory{client: client}
}

func historyKey(userID uint) string {
	return historyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Record moves query to the front, removing any earlier copy.
func (h *SearchHistory) Record(ctx context.Context, userID uint, query string) error {
	key := historyKey(userID)
	pipe := h.client.TxPipeline()
	pipe.LRem(ctx, key, 0, query)
	pipe.LPush(ctx, key, query)
	pipe.LTrim(ctx, key, 0, search.MaxHistory-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to record search history")
	}
	return nil
}

func (h *SearchHistory) Recent(ctx context.Context, userID uint, limit int) ([]string, error) {
	if limit <= 0 || limit > search.MaxHistory {
		limit = search.MaxHistory
	}
	items, err := h.client.LRange(ctx, historyKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read search history")
	}
	return items, nil
}

func (h *SearchHistory) Clear(ctx context.Context, userID uint) error {
	if err := h.client.Del(ctx, historyKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "failed to clear search history")
	}
	return nil
}
