package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Feed pipeline metrics
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of upstream feed downloads",
		},
		[]string{"result"},
	)

	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Upstream feed download duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)

	FeedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Feed cache lookups by result",
		},
		[]string{"result"},
	)

	FeedParseOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_parse_outcomes_total",
			Help: "Terminal states of streaming feed parses",
		},
		[]string{"outcome"},
	)

	FeedRowsScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_rows_scanned",
			Help:    "Data rows read per search",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	// Application health metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "environment"},
	)
)

// Init sets the static application info gauge
func Init(serviceName, version, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, version, environment).Set(1)
}
