package domain

import "time"

// Fixed attributes of the upstream feed.
const (
	CurrencyBRL = "BRL"
	StoreShopee = "Shopee"
)

// RawRow maps a feed header column to the value found in one data row.
type RawRow map[string]string

// Product is the canonical record built from a feed row
type Product struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	URL       string  `json:"url"`
	Image     *string `json:"image"`
	Category  *string `json:"category"`
	Coupon    *string `json:"coupon"`
	Store     string  `json:"store"`
	Available bool    `json:"available"`
	Rating    float64 `json:"rating"`
	Sold      float64 `json:"sold"`
}

// FilterSpec holds the caller filters applied to every normalized row.
// Zero values impose no constraint.
type FilterSpec struct {
	Query     string   // lowercase substring matched against the title
	Category  string   // case-insensitive exact match
	MaxPrice  *float64 // ignored when nil or <= 0
	MinRating float64
}

// SearchRequest represents a product search request
type SearchRequest struct {
	Filters FilterSpec
	Limit   int
}

// FeedPayload is a raw feed download as stored in the feed cache
type FeedPayload struct {
	Body        []byte
	ContentType string
	FetchedAt   time.Time
}

// SearchResult is the outcome of one pipeline run.
type SearchResult struct {
	Items []Product
	Stats SearchStats
}

// SearchStats carries the diagnostics reported in debug mode
type SearchStats struct {
	RowsSeen       int          `json:"rowsSeen"`
	Outcome        ParseOutcome `json:"outcome"`
	EarlyStopped   bool         `json:"aborted"`
	RowCapReached  bool         `json:"rowCapReached"`
	CollectedCount int          `json:"collected"`
	ReturnedCount  int          `json:"returned"`
	CacheHit       bool         `json:"cacheHit"`
}
