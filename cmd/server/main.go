package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/farofertas/backend/config"
	httpDelivery "github.com/farofertas/backend/internal/delivery/http"
	"github.com/farofertas/backend/internal/domain"
	"github.com/farofertas/backend/internal/infrastructure/cache"
	"github.com/farofertas/backend/internal/infrastructure/feed"
	"github.com/farofertas/backend/internal/logger"
	"github.com/farofertas/backend/internal/metrics"
	"github.com/farofertas/backend/internal/usecase"
)

const (
	serviceName    = "farofertas-backend"
	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	lg.Info("starting",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)
	metrics.Init(serviceName, serviceVersion, cfg.Server.Environment)

	// Initialize infrastructure dependencies
	feedCache, closeCache, err := newFeedCache(cfg, lg)
	if err != nil {
		return err
	}
	defer closeCache()

	feedClient := feed.NewClient(feed.ClientConfig{
		Timeout:       cfg.Feed.Timeout,
		UserAgent:     cfg.Feed.UserAgent,
		RatePerMinute: cfg.Feed.RatePerMinute,
	}, lg.Named("feed"))

	// Initialize usecase layer
	productService := usecase.NewProductService(feedCache, feedClient, usecase.ProductServiceConfig{
		FeedURL:             cfg.Feed.URL,
		RowCap:              cfg.Feed.RowCap,
		CandidateMultiplier: cfg.Feed.CandidateMultiplier,
	})

	lg.Info("feed configured",
		zap.String("url", cfg.Feed.URL),
		zap.Int("row_cap", cfg.Feed.RowCap),
		zap.Int("candidate_multiplier", cfg.Feed.CandidateMultiplier),
	)

	handler := httpDelivery.NewHandler(productService)
	router := httpDelivery.SetupRouter(cfg, handler, lg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newFeedCache builds the configured cache backend and its cleanup func
func newFeedCache(cfg *config.Config, lg *zap.Logger) (domain.FeedCache, func(), error) {
	switch cfg.Cache.Type {
	case config.CacheBolt:
		c, err := cache.NewBoltFeedCache(cfg.Cache.BoltPath, cfg.Cache.TTL, nil, lg.Named("cache"))
		if err != nil {
			return nil, nil, err
		}
		return c, func() {
			if err := c.Close(); err != nil {
				lg.Warn("close bolt cache", zap.Error(err))
			}
		}, nil
	default:
		return cache.NewMemoryFeedCache(cfg.Cache.TTL, nil), func() {}, nil
	}
}
