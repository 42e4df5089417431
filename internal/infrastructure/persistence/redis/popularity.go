package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// QueryCounter ranks raw queries in a sorted set.
type QueryCounter struct {
	client *redis.Client
}

// NewQueryCounter creates a query frequency counter shared through Redis.
func NewQueryCounter(client *redis.Client) *QueryCounter {
	return &QueryCounter{client: client}
}

func (c *QueryCounter) Increment(ctx context.Context, query string) error {
	if err := c.client.ZIncrBy(ctx, popularityKey, 1, query).Err(); err != nil {
		return apperrors.Wrap(err, "failed to count query")
	}
	return nil
}

func (c *QueryCounter) Top(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	top, err := c.client.ZRevRange(ctx, popularityKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read popular queries")
	}
	return top, nil
}
