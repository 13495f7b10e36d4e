package dedupe

import "time"

// Option applies a configuration option to the deduper.
type Option func(*cacheDeduper)

// WithTTL sets how long a key is remembered. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(d *cacheDeduper) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithCleanupInterval sets how often expired keys are swept.
func WithCleanupInterval(interval time.Duration) Option {
	return func(d *cacheDeduper) {
		if interval > 0 {
			d.cleanupInterval = interval
		}
	}
}
