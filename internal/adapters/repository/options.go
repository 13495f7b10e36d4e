package repository

import (
	"time"

	"github.com/okian/eventboard/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type options struct {
	now           func() time.Time
	newID         func() string
	slowThreshold time.Duration
	gormLogLevel  gormlogger.LogLevel
	logger        logger.Logger
}

func defaultOptions() options {
	return options{
		now:           time.Now,
		newID:         newID,
		slowThreshold: defaultSlowQueryThreshold,
		gormLogLevel:  gormlogger.Warn,
	}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithClock sets the time source for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithSlowQueryThreshold sets the duration above which gorm logs a query as slow.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.slowThreshold = d
		}
	}
}

// WithGormLogLevel sets the gorm logger level.
func WithGormLogLevel(level gormlogger.LogLevel) Option {
	return func(o *options) {
		o.gormLogLevel = level
	}
}

// WithLogger sets the logger gorm writes through. Defaults to the global
// logger named "gorm".
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
