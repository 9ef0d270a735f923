package domain

import "context"

// FeedCache holds the most recent feed download for a bounded time
type FeedCache interface {
	// Get returns the cached payload while it is still fresh.
	Get(ctx context.Context) (*FeedPayload, bool)
	// Put overwrites the slot and stamps it with the current time.
	Put(ctx context.Context, payload *FeedPayload) error
}

// FeedFetcher downloads the remote feed
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*FeedPayload, error)
}
