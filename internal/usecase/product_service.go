package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/farofertas/backend/internal/domain"
	"github.com/farofertas/backend/internal/infrastructure/feed"
	"github.com/farofertas/backend/internal/logger"
	"github.com/farofertas/backend/internal/metrics"
)

// Request limits
const (
	DefaultLimit = 20
	MaxLimit     = 50

	DefaultRowCap = 25000
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	FeedURL             string
	RowCap              int
	CandidateMultiplier int
}

// ProductService runs the feed search pipeline:
// cache -> fetch -> container -> streaming parse -> normalize/filter -> collect -> rank
type ProductService struct {
	cache      domain.FeedCache
	fetcher    domain.FeedFetcher
	refresh    singleflight.Group
	feedURL    string
	rowCap     int
	multiplier int
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	cache domain.FeedCache,
	fetcher domain.FeedFetcher,
	config ProductServiceConfig,
) *ProductService {
	rowCap := config.RowCap
	if rowCap == 0 {
		rowCap = DefaultRowCap
	}

	multiplier := config.CandidateMultiplier
	if multiplier < 1 {
		multiplier = DefaultCandidateMultiplier
	}

	return &ProductService{
		cache:      cache,
		fetcher:    fetcher,
		feedURL:    config.FeedURL,
		rowCap:     rowCap,
		multiplier: multiplier,
	}
}

// Search returns the ranked, deduplicated products matching the request.
// Any fetch, container or stream failure aborts the search; partial results
// are never returned.
func (s *ProductService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	limit := clampLimit(request.Limit)
	lg := logger.From(ctx)
	start := time.Now()

	payload, cacheHit, err := s.loadFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	stream, err := feed.Resolve(payload.Body, payload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("resolve feed container: %w", err)
	}

	rows, err := feed.NewRowReader(ctx, stream, s.rowCap)
	if err != nil {
		metrics.FeedParseOutcomes.WithLabelValues(string(domain.ParseFailed)).Inc()
		return nil, fmt.Errorf("read feed header: %w", err)
	}
	defer rows.Close()

	collector := NewCollector(limit, s.multiplier)
	for rows.Next() {
		product, ok := feed.MapRow(rows.Row())
		if !ok || !Matches(product, request.Filters) {
			continue
		}
		if collector.Offer(*product) == Stop {
			rows.Stop()
		}
	}

	parse := rows.Stats()
	metrics.FeedParseOutcomes.WithLabelValues(string(parse.Outcome)).Inc()
	metrics.FeedRowsScanned.Observe(float64(parse.RowsSeen))

	if err := rows.Err(); err != nil {
		lg.Warn("feed parse failed",
			zap.Int("rows_seen", parse.RowsSeen),
			zap.Error(err),
		)
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := Finalize(collector.Candidates(), limit)

	stats := domain.SearchStats{
		RowsSeen:       parse.RowsSeen,
		Outcome:        parse.Outcome,
		EarlyStopped:   parse.Outcome == domain.ParseEarlyStopped || parse.Outcome == domain.ParseCapped,
		RowCapReached:  parse.Outcome == domain.ParseCapped,
		CollectedCount: collector.Len(),
		ReturnedCount:  len(items),
		CacheHit:       cacheHit,
	}

	lg.Info("product search finished",
		zap.Int("rows_seen", stats.RowsSeen),
		zap.String("outcome", string(stats.Outcome)),
		zap.Int("collected", stats.CollectedCount),
		zap.Int("returned", stats.ReturnedCount),
		zap.Bool("cache_hit", cacheHit),
		zap.Duration("duration", time.Since(start)),
	)

	return &domain.SearchResult{Items: items, Stats: stats}, nil
}

// loadFeed returns the cached feed, downloading it when the slot is stale.
// Concurrent misses share one download.
func (s *ProductService) loadFeed(ctx context.Context) (*domain.FeedPayload, bool, error) {
	if payload, ok := s.cache.Get(ctx); ok {
		metrics.FeedCacheLookups.WithLabelValues("hit").Inc()
		return payload, true, nil
	}
	metrics.FeedCacheLookups.WithLabelValues("miss").Inc()

	if s.feedURL == "" {
		return nil, false, domain.ErrFeedNotConfigured
	}

	// Shared by every waiter; bounded by the fetcher timeout only.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.refresh.DoChan("feed", func() (any, error) {
		start := time.Now()
		payload, err := s.fetcher.Fetch(fetchCtx, s.feedURL)
		metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.FeedFetchesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.FeedFetchesTotal.WithLabelValues("ok").Inc()

		if err := s.cache.Put(fetchCtx, payload); err != nil {
			logger.From(fetchCtx).Warn("feed cache write failed", zap.Error(err))
		}
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, &domain.TransportError{URL: s.feedURL, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*domain.FeedPayload), false, nil
	}
}

// clampLimit keeps the requested result count within 1..MaxLimit
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
