package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boipara/bookstore/internal/domain/search"
)

// newTestClient returns a client backed by an in-process miniredis server.
func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return client, server
}

func TestSuggestionCache_CapacityEvictsOldest(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	cache := NewSuggestionCache(client, time.Minute, 2)

	value := []search.Suggestion{{BookID: 1, Title: "Pather Panchali", Score: 15}}
	require.NoError(t, cache.Set(ctx, "pa", value))
	require.NoError(t, cache.Set(ctx, "pat", value))
	require.NoError(t, cache.Set(ctx, "path", value))

	_, hit, err := cache.Get(ctx, "pa")
	require.NoError(t, err)
	assert.False(t, hit)

	got, hit, err := cache.Get(ctx, "path")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, value, got)
}

func TestSuggestionCache_OverwriteKeepsPosition(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	cache := NewSuggestionCache(client, time.Minute, 2)

	value := []search.Suggestion{{BookID: 2, Title: "Aranyak", Score: 10}}
	require.NoError(t, cache.Set(ctx, "ar", value))
	require.NoError(t, cache.Set(ctx, "ara", value))
	require.NoError(t, cache.Set(ctx, "ar", value))
	require.NoError(t, cache.Set(ctx, "aran", value))

	_, hit, err := cache.Get(ctx, "ar")
	require.NoError(t, err)
	assert.False(t, hit, "rewriting a live key does not refresh its position")

	members, err := client.ZRange(ctx, suggestOrderKey, 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"ara", "aran"}, members)
}

func TestSuggestionCache_ResetAfterExpiryBeforeSweep(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()
	cache := NewSuggestionCache(client, 5*time.Minute, 2)

	value := []search.Suggestion{{BookID: 3, Title: "Abol Tabol", Score: 15}}
	require.NoError(t, cache.Set(ctx, "ab", value))
	server.FastForward(6 * time.Minute)
	require.NoError(t, cache.Set(ctx, "ab", value))
	require.NoError(t, cache.Set(ctx, "cd", value))

	members, err := client.ZRange(ctx, suggestOrderKey, 0, -1).Result()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ab", "cd"}, members)

	for _, key := range []string{"ab", "cd"} {
		_, hit, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, hit, key)
	}
}

func TestSuggestionCache_SweepForgetsExpired(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()
	cache := NewSuggestionCache(client, time.Minute, 10)

	require.NoError(t, cache.Set(ctx, "ta", nil))
	require.NoError(t, cache.Set(ctx, "go", nil))
	server.FastForward(2 * time.Minute)
	require.NoError(t, cache.Set(ctx, "go", nil))

	removed, err := cache.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	require.NoError(t, cache.Evict(ctx, "go"))
	n, err := client.ZCard(ctx, suggestOrderKey).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchHistory_DedupNewestFirst(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	history := NewSearchHistory(client)

	for _, q := range []string{"tagore", "humayun", "tagore"} {
		require.NoError(t, history.Record(ctx, 7, q))
	}
	got, err := history.Recent(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"tagore", "humayun"}, got)

	require.NoError(t, history.Clear(ctx, 7))
	got, err = history.Recent(ctx, 7, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryCounter_Top(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	counter := NewQueryCounter(client)

	for _, q := range []string{"nazrul", "tagore", "tagore"} {
		require.NoError(t, counter.Increment(ctx, q))
	}
	top, err := counter.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"tagore"}, top)
}

func TestTokenBlacklist(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	blacklist := NewTokenBlacklist(client)
	token := uuid.NewString()

	revoked, err := blacklist.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, token, time.Minute))
	revoked, err = blacklist.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)
}
