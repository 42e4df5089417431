package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/search"
	"github.com/boipara/bookstore/pkg/metrics"
	"github.com/boipara/bookstore/pkg/tracing"
)

const DefaultQueryTimeout = 500 * time.Millisecond

// Engine answers autocomplete, history and popular-query requests.
//
// Cache, history and counter failures degrade the answer but never fail it;
// only the ranked store query can return an error.
type Engine struct {
	repo     search.Repository
	cache    search.Cache
	history  search.HistoryStore
	counter  search.QueryCounter
	trending search.TrendingSource
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewEngine creates the search engine. A non-positive timeout means DefaultQueryTimeout.
func NewEngine(
	repo search.Repository,
	cache search.Cache,
	history search.HistoryStore,
	counter search.QueryCounter,
	trending search.TrendingSource,
	timeout time.Duration,
	logger *zap.Logger,
) *Engine {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Engine{
		repo:     repo,
		cache:    cache,
		history:  history,
		counter:  counter,
		trending: trending,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// Suggest returns up to eight ranked books for a partial query. Queries shorter
// than two characters answer empty without touching any store. userID is only
// used for logging.
func (e *Engine) Suggest(ctx context.Context, raw string, userID uint) (_ []search.Suggestion, err error) {
	q, ok := search.ParseQuery(raw)
	if !ok {
		return []search.Suggestion{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "search.suggest", attribute.String("search.query", q.Raw))
	defer func() { tracing.EndSpan(span, err) }()

	if err := e.counter.Increment(ctx, q.Raw); err != nil {
		e.logger.Warn("query counter increment failed", zap.String("query", q.Raw), zap.Error(err))
	}

	cached, hit, err := e.cache.Get(ctx, q.Escaped)
	if err != nil {
		e.logger.Warn("suggestion cache read failed", zap.String("key", q.Escaped), zap.Error(err))
	}
	if hit {
		metrics.IncCounterVec(metrics.SearchCacheRequestsTotal, "hit")
		return cached, nil
	}
	metrics.IncCounterVec(metrics.SearchCacheRequestsTotal, "miss")

	qctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	results, err := e.suggestWithin(qctx, q)
	metrics.SearchQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, search.ErrSearchTimeout) || errors.Is(qctx.Err(), context.DeadlineExceeded) {
			metrics.IncCounterVec(metrics.SearchErrorsTotal, "timeout")
			e.logger.Warn("suggest timed out", zap.String("query", q.Raw), zap.Duration("timeout", e.timeout))
			return nil, search.ErrSearchTimeout
		}
		metrics.IncCounterVec(metrics.SearchErrorsTotal, "store")
		return nil, err
	}
	if results == nil {
		results = []search.Suggestion{}
	}

	if err := e.cache.Set(ctx, q.Escaped, results); err != nil {
		e.logger.Warn("suggestion cache write failed", zap.String("key", q.Escaped), zap.Error(err))
	}
	e.logger.Debug("suggest",
		zap.String("query", q.Raw),
		zap.Uint("user_id", userID),
		zap.Int("results", len(results)),
	)
	return results, nil
}

type suggestResult struct {
	items []search.Suggestion
	err   error
}

// suggestWithin returns when the store answers or ctx is done, whichever comes
// first. A store call that ignores ctx finishes in the background and its
// result is discarded.
func (e *Engine) suggestWithin(ctx context.Context, q search.Query) ([]search.Suggestion, error) {
	done := make(chan suggestResult, 1)
	go func() {
		items, err := e.repo.Suggest(ctx, q)
		done <- suggestResult{items: items, err: err}
	}()

	select {
	case r := <-done:
		return r.items, r.err
	case <-ctx.Done():
		return nil, search.ErrSearchTimeout
	}
}

// RecordHistory stores query as the newest entry of the user's history.
func (e *Engine) RecordHistory(ctx context.Context, userID uint, raw string) error {
	q, ok := search.ParseQuery(raw)
	if !ok {
		return search.ErrEmptyQuery
	}
	return e.history.Record(ctx, userID, q.Raw)
}

// RecentHistory returns at most ten distinct queries, newest first.
func (e *Engine) RecentHistory(ctx context.Context, userID uint) ([]string, error) {
	recent, err := e.history.Recent(ctx, userID, search.MaxHistory)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []string{}
	}
	return recent, nil
}

func (e *Engine) ClearHistory(ctx context.Context, userID uint) error {
	return e.history.Clear(ctx, userID)
}

// Popular merges the most frequent queries with the titles selling best this
// week. Either source failing only shrinks the list.
func (e *Engine) Popular(ctx context.Context) []string {
	popular := make([]string, 0, search.MaxPopular)
	seen := make(map[string]bool, search.MaxPopular)
	add := func(s string) {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] || len(popular) >= search.MaxPopular {
			return
		}
		seen[key] = true
		popular = append(popular, s)
	}

	top, err := e.counter.Top(ctx, search.PopularFromCounts)
	if err != nil {
		e.logger.Warn("popular queries unavailable", zap.Error(err))
	}
	for _, q := range top {
		add(q)
	}

	since := e.now().AddDate(0, 0, -search.TrendingWindowDays)
	titles, err := e.trending.TrendingTitles(ctx, since, search.PopularFromTrending)
	if err != nil {
		e.logger.Warn("trending titles unavailable", zap.Error(err))
	}
	for _, t := range titles {
		add(t)
	}
	return popular
}

// RunSweeper evicts expired cache entries every interval until ctx is done.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := e.cache.Sweep(ctx)
			if err != nil {
				e.logger.Warn("suggestion cache sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				e.logger.Debug("suggestion cache swept", zap.Int("evicted", n))
			}
		}
	}
}
