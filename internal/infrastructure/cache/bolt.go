package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/farofertas/backend/internal/domain"
)

var (
	feedBucket = []byte("feed")
	metaKey    = []byte("meta")
	bodyKey    = []byte("body")
)

type boltMeta struct {
	FetchedAt   time.Time `json:"fetchedAt"`
	ContentType string    `json:"contentType"`
}

// BoltFeedCache keeps the feed slot in a bbolt file so a restart within
// the TTL window does not trigger a download.
type BoltFeedCache struct {
	db  *bolt.DB
	ttl time.Duration
	now Clock
	log *zap.Logger
}

// NewBoltFeedCache opens (or creates) the cache file at path
func NewBoltFeedCache(path string, ttl time.Duration, clock Clock, log *zap.Logger) (*BoltFeedCache, error) {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(feedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create feed bucket: %w", err)
	}

	return &BoltFeedCache{db: db, ttl: ttl, now: clock, log: log}, nil
}

// Get returns the stored payload while it is fresh. Read failures count as a miss.
func (c *BoltFeedCache) Get(ctx context.Context) (*domain.FeedPayload, bool) {
	var payload *domain.FeedPayload

	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedBucket)
		if b == nil {
			return nil
		}

		rawMeta := b.Get(metaKey)
		if rawMeta == nil {
			return nil
		}

		var meta boltMeta
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return fmt.Errorf("decode cache meta: %w", err)
		}
		if c.now().Sub(meta.FetchedAt) >= c.ttl {
			return nil
		}

		// bbolt values are only valid inside the transaction
		payload = &domain.FeedPayload{
			Body:        bytes.Clone(b.Get(bodyKey)),
			ContentType: meta.ContentType,
			FetchedAt:   meta.FetchedAt,
		}
		return nil
	})
	if err != nil {
		c.log.Warn("bolt cache read failed", zap.Error(err))
		return nil, false
	}

	return payload, payload != nil
}

// Put overwrites the stored payload
func (c *BoltFeedCache) Put(ctx context.Context, payload *domain.FeedPayload) error {
	if payload == nil {
		return nil
	}

	meta, err := json.Marshal(boltMeta{FetchedAt: c.now(), ContentType: payload.ContentType})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedBucket)
		if err := b.Put(bodyKey, payload.Body); err != nil {
			return err
		}
		return b.Put(metaKey, meta)
	})
}

// Close releases the underlying file
func (c *BoltFeedCache) Close() error {
	return c.db.Close()
}
