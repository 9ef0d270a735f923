package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/farofertas/backend/internal/domain"
)

const (
	// DefaultUserAgent mimics a desktop browser; the feed host rejects default client identities.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

	acceptHeader         = "text/csv,application/zip,application/octet-stream,*/*"
	acceptLanguageHeader = "pt-BR,pt;q=0.9,en;q=0.8"
	maxSnippetLen        = 200
)

// ClientConfig holds settings for the feed client
type ClientConfig struct {
	Timeout       time.Duration
	UserAgent     string
	RatePerMinute int
}

// Client downloads the product feed from the upstream host
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	log         *zap.Logger
}

// NewClient creates a new feed client
func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetLogger(log.Sugar()).
		SetHeaders(map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          acceptHeader,
			"Accept-Language": acceptLanguageHeader,
		})

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(limit, 2),
		log:         log,
	}
}

// Fetch issues a single GET against the feed url. There is no retry here:
// the caller decides whether a failure is surfaced.
func (c *Client) Fetch(ctx context.Context, url string) (*domain.FeedPayload, error) {
	if url == "" {
		return nil, domain.ErrFeedNotConfigured
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{URL: url, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		c.log.Warn("feed request failed", zap.String("url", url), zap.Error(err))
		return nil, &domain.TransportError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		c.log.Warn("feed returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, &domain.UpstreamStatusError{
			StatusCode:  resp.StatusCode(),
			Status:      http.StatusText(resp.StatusCode()),
			BodySnippet: bodySnippet(resp.Body(), maxSnippetLen),
		}
	}

	body := resp.Body()
	c.log.Info("feed downloaded",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.String("content_type", resp.Header().Get("Content-Type")),
		zap.Duration("duration", time.Since(start)),
	)

	return &domain.FeedPayload{
		Body:        body,
		ContentType: strings.ToLower(resp.Header().Get("Content-Type")),
		FetchedAt:   time.Now(),
	}, nil
}

// bodySnippet returns at most limit bytes of body for diagnostics
func bodySnippet(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
