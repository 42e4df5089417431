package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/search"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/memory"
)

type fakeRepo struct {
	calls   int
	delay   time.Duration
	err     error
	results []search.Suggestion
}

func (r *fakeRepo) Suggest(ctx context.Context, _ search.Query) ([]search.Suggestion, error) {
	r.calls++
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.results, r.err
}

type fakeTrending struct {
	titles []string
	err    error
	since  time.Time
}

func (f *fakeTrending) TrendingTitles(_ context.Context, since time.Time, limit int) ([]string, error) {
	f.since = since
	if len(f.titles) > limit {
		return f.titles[:limit], f.err
	}
	return f.titles, f.err
}

type engineFixture struct {
	engine   *Engine
	repo     *fakeRepo
	cache    *memory.SuggestionCache
	counter  *memory.QueryCounter
	trending *fakeTrending
}

func newEngine(timeout time.Duration) *engineFixture {
	f := &engineFixture{
		repo:     &fakeRepo{results: []search.Suggestion{{BookID: 1, Title: "English Grammar", Score: 15}}},
		cache:    memory.NewSuggestionCache(5*time.Minute, 100),
		counter:  memory.NewQueryCounter(),
		trending: &fakeTrending{},
	}
	f.engine = NewEngine(f.repo, f.cache, memory.NewSearchHistory(), f.counter, f.trending, timeout, zap.NewNop())
	return f
}

func TestEngine_Suggest_ShortQuerySkipsStore(t *testing.T) {
	f := newEngine(0)
	for _, q := range []string{"", " ", " e "} {
		got, err := f.engine.Suggest(context.Background(), q, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Zero(t, f.repo.calls)
	assert.Zero(t, f.cache.Len())

	top, err := f.counter.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestEngine_Suggest_CachesByEscapedQuery(t *testing.T) {
	f := newEngine(0)
	ctx := context.Background()

	first, err := f.engine.Suggest(ctx, "Eng", 7)
	require.NoError(t, err)
	second, err := f.engine.Suggest(ctx, "  eng ", 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.repo.calls, "second call is served from cache")

	// Counting uses the raw query, cache hits included.
	top, err := f.counter.Top(ctx, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Eng", "eng"}, top)
}

func TestEngine_Suggest_Timeout(t *testing.T) {
	f := newEngine(20 * time.Millisecond)
	f.repo.delay = time.Second

	got, err := f.engine.Suggest(context.Background(), "slow query", 0)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, search.ErrSearchTimeout)
	assert.Zero(t, f.cache.Len(), "failed lookups are not cached")
}

// stuckRepo blocks until released and never looks at ctx.
type stuckRepo struct {
	release chan struct{}
}

func (r *stuckRepo) Suggest(context.Context, search.Query) ([]search.Suggestion, error) {
	<-r.release
	return []search.Suggestion{{BookID: 9, Title: "Late"}}, nil
}

func TestEngine_Suggest_TimeoutWhenStoreIgnoresContext(t *testing.T) {
	repo := &stuckRepo{release: make(chan struct{})}
	defer close(repo.release)
	cache := memory.NewSuggestionCache(time.Minute, 10)
	engine := NewEngine(repo, cache, memory.NewSearchHistory(), memory.NewQueryCounter(),
		&fakeTrending{}, 30*time.Millisecond, zap.NewNop())

	start := time.Now()
	got, err := engine.Suggest(context.Background(), "english", 0)
	assert.ErrorIs(t, err, search.ErrSearchTimeout)
	assert.Nil(t, got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Zero(t, cache.Len())
}

func TestEngine_Suggest_StoreError(t *testing.T) {
	f := newEngine(0)
	f.repo.err = errors.New("db gone")

	_, err := f.engine.Suggest(context.Background(), "english", 0)
	assert.EqualError(t, err, "db gone")
}

func TestEngine_History(t *testing.T) {
	f := newEngine(0)
	ctx := context.Background()

	assert.ErrorIs(t, f.engine.RecordHistory(ctx, 1, "x"), search.ErrEmptyQuery)
	for _, q := range []string{"himu", "english", "himu"} {
		require.NoError(t, f.engine.RecordHistory(ctx, 1, q))
	}

	recent, err := f.engine.RecentHistory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"himu", "english"}, recent)

	require.NoError(t, f.engine.ClearHistory(ctx, 1))
	recent, err = f.engine.RecentHistory(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func TestEngine_Popular_MergesCountsAndTrending(t *testing.T) {
	f := newEngine(0)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.engine.now = func() time.Time { return now }

	counts := map[string]int{"himu": 6, "english": 5, "physics": 4, "math": 3, "poems": 2, "atlas": 1}
	for q, n := range counts {
		for i := 0; i < n; i++ {
			require.NoError(t, f.counter.Increment(ctx, q))
		}
	}
	f.trending.titles = []string{"Himu", "Stolen Sky", "Parineeta", "Devdas"}

	popular := f.engine.Popular(ctx)
	assert.Equal(t, []string{"himu", "english", "physics", "math", "poems", "Stolen Sky", "Parineeta"}, popular)
	assert.Equal(t, now.AddDate(0, 0, -7), f.trending.since)
}

func TestEngine_Popular_SurvivesTrendingFailure(t *testing.T) {
	f := newEngine(0)
	ctx := context.Background()
	require.NoError(t, f.counter.Increment(ctx, "himu"))
	f.trending.err = errors.New("db gone")

	assert.Equal(t, []string{"himu"}, f.engine.Popular(ctx))
}

func TestEngine_RunSweeper_StopsOnCancel(t *testing.T) {
	f := newEngine(0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.engine.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
