// Package dedupe tracks submission idempotency keys.
package dedupe

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultTTL             = 10 * time.Minute
	defaultCleanupInterval = time.Minute
)

// Deduper records seen idempotency keys so that a repeated submission is
// applied at most once within the retention window.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets a key so a failed submission can be retried.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

type cacheDeduper struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	seen            *cache.Cache
}

// NewInMemoryDeduper creates a TTL-bounded deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &cacheDeduper{
		ttl:             defaultTTL,
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = cache.New(d.ttl, d.cleanupInterval)
	return d
}

// SeenAndRecord relies on cache.Add failing for live keys, which makes the
// check and the insert one step.
func (d *cacheDeduper) SeenAndRecord(_ context.Context, key string) bool {
	return d.seen.Add(key, struct{}{}, cache.DefaultExpiration) != nil
}

func (d *cacheDeduper) Unrecord(_ context.Context, key string) {
	d.seen.Delete(key)
}

// Size may include expired keys not yet swept.
func (d *cacheDeduper) Size() int64 {
	return int64(d.seen.ItemCount())
}
