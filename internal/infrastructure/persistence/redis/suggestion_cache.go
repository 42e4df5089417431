package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boipara/bookstore/internal/domain/search"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// SuggestionCache is the shared search.Cache. Values are plain string keys that
// expire through Redis TTLs; a sorted set scored by insertion time bounds the
// entry count.
type SuggestionCache struct {
	client   *redis.Client
	ttl      time.Duration
	capacity int
}

// NewSuggestionCache returns a cache holding at most capacity entries for ttl each.
func NewSuggestionCache(client *redis.Client, ttl time.Duration, capacity int) *SuggestionCache {
	return &SuggestionCache{client: client, ttl: ttl, capacity: capacity}
}

func (c *SuggestionCache) Get(ctx context.Context, key string) ([]search.Suggestion, bool, error) {
	raw, err := c.client.Get(ctx, suggestPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to read suggestion cache")
	}

	var value []search.Suggestion
	if err := json.Unmarshal(raw, &value); err != nil {
		// A corrupt entry is treated as a miss and replaced on the next Set.
		return nil, false, nil
	}
	return value, true, nil
}

func (c *SuggestionCache) Set(ctx context.Context, key string, value []search.Suggestion) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode suggestions")
	}

	exists, err := c.client.Exists(ctx, suggestPrefix+key).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to write suggestion cache")
	}

	// A live entry keeps its insertion position; an expired or new one moves to
	// the back. Members are unique, so a key is never counted twice.
	member := redis.Z{Score: float64(time.Now().UnixMicro()), Member: key}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, suggestPrefix+key, raw, c.ttl)
	if exists == 0 {
		pipe.ZAdd(ctx, suggestOrderKey, member)
	} else {
		pipe.ZAddNX(ctx, suggestOrderKey, member)
	}
	size := pipe.ZCard(ctx, suggestOrderKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to write suggestion cache")
	}

	over := size.Val() - int64(c.capacity)
	if over <= 0 {
		return nil
	}
	oldest, err := c.client.ZPopMin(ctx, suggestOrderKey, over).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to evict suggestion cache")
	}
	keys := make([]string, 0, len(oldest))
	for _, z := range oldest {
		if k, ok := z.Member.(string); ok {
			keys = append(keys, suggestPrefix+k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Wrap(err, "failed to evict suggestion cache")
	}
	return nil
}

func (c *SuggestionCache) Evict(ctx context.Context, key string) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, suggestPrefix+key)
	pipe.ZRem(ctx, suggestOrderKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to evict suggestion cache")
	}
	return nil
}

// Sweep drops index members whose value Redis has already expired.
func (c *SuggestionCache) Sweep(ctx context.Context) (int, error) {
	keys, err := c.client.ZRange(ctx, suggestOrderKey, 0, -1).Result()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to sweep suggestion cache")
	}

	removed := 0
	for _, key := range keys {
		n, err := c.client.Exists(ctx, suggestPrefix+key).Result()
		if err != nil {
			return removed, apperrors.Wrap(err, "failed to sweep suggestion cache")
		}
		if n == 0 {
			if err := c.client.ZRem(ctx, suggestOrderKey, key).Err(); err != nil {
				return removed, apperrors.Wrap(err, "failed to sweep suggestion cache")
			}
			removed++
		}
	}
	return removed, nil
}
