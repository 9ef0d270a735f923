package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/farofertas/backend/internal/domain"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// MemoryFeedCache is a single-slot, process-wide feed cache with TTL support.
// Reads and writes swap a pointer to an immutable entry, so concurrent requests
// never observe a partially written payload.
type MemoryFeedCache struct {
	slot atomic.Pointer[domain.FeedPayload]
	ttl  time.Duration
	now  Clock
}

// NewMemoryFeedCache creates a new in-memory feed cache
func NewMemoryFeedCache(ttl time.Duration, clock Clock) *MemoryFeedCache {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryFeedCache{ttl: ttl, now: clock}
}

// Get returns the cached payload if it was stored less than ttl ago
func (c *MemoryFeedCache) Get(ctx context.Context) (*domain.FeedPayload, bool) {
	entry := c.slot.Load()
	if entry == nil {
		return nil, false
	}

	if c.now().Sub(entry.FetchedAt) >= c.ttl {
		return nil, false
	}

	return entry, true
}

// Put overwrites the slot unconditionally (last write wins)
func (c *MemoryFeedCache) Put(ctx context.Context, payload *domain.FeedPayload) error {
	if payload == nil {
		return nil
	}

	entry := &domain.FeedPayload{
		Body:        payload.Body,
		ContentType: payload.ContentType,
		FetchedAt:   c.now(),
	}
	c.slot.Store(entry)
	return nil
}

// Clear drops the cached payload
func (c *MemoryFeedCache) Clear() {
	c.slot.Store(nil)
}
