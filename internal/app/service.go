// Package service orchestrates event storage, sequence grouping, calendar
// rendering and range expansion behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/eventboard/internal/adapters/repository"
	"github.com/okian/eventboard/internal/domain/dedupe"
	"github.com/okian/eventboard/internal/domain/render"
	"github.com/okian/eventboard/pkg/logger"
	"github.com/okian/eventboard/pkg/metrics"
)

const (
	defaultMaxRangeDays      = 62
	defaultDedupeTTL         = 10 * time.Minute
	defaultAuthor            = "Unknown"
	defaultCompactBreakpoint = 640
)

// Service implements the API dependencies for the event board.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	storeDriver       string
	storeDSN          string
	storeOpts         []repository.Option
	palette           render.Palette
	maxRangeDays      int
	atomicBatches     bool
	dedupeTTL         time.Duration
	defaultAuthor     string
	location          *time.Location
	compactBreakpoint int
	now               func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses an already opened store. The service closes it on Stop.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithStoreDriver selects the store opened on Start when none was supplied.
func WithStoreDriver(driver, dsn string, opts ...repository.Option) Option {
	return func(s *Service) {
		if driver != "" {
			s.storeDriver = driver
			s.storeDSN = dsn
			s.storeOpts = opts
		}
	}
}

// WithPalette sets the item colors.
func WithPalette(p render.Palette) Option {
	return func(s *Service) {
		s.palette = p
	}
}

// WithMaxRangeDays bounds how many records one submission may create.
func WithMaxRangeDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRangeDays = n
		}
	}
}

// WithAtomicBatches runs each range expansion inside one store transaction
// when the store supports it.
func WithAtomicBatches(enabled bool) Option {
	return func(s *Service) {
		s.atomicBatches = enabled
	}
}

// WithDedupeTTL sets how long idempotency keys are remembered.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.dedupeTTL = ttl
		}
	}
}

// WithDefaultAuthor sets the note author used when the caller is anonymous.
func WithDefaultAuthor(author string) Option {
	return func(s *Service) {
		if author != "" {
			s.defaultAuthor = author
		}
	}
}

// WithLocation sets the zone used to place clock times in exports.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithCompactBreakpoint sets the width below which the week view becomes a list.
func WithCompactBreakpoint(px int) Option {
	return func(s *Service) {
		if px > 0 {
			s.compactBreakpoint = px
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeDriver:       repository.DriverMemory,
		palette:           render.DefaultPalette(),
		maxRangeDays:      defaultMaxRangeDays,
		dedupeTTL:         defaultDedupeTTL,
		defaultAuthor:     defaultAuthor,
		location:          time.UTC,
		compactBreakpoint: defaultCompactBreakpoint,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the store and initializes the deduper.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting event board service...")

	if s.store == nil {
		opts := append([]repository.Option{repository.WithLogger(s.logger.Named("gorm"))}, s.storeOpts...)
		st, err := repository.Open(s.storeDriver, s.storeDSN, opts...)
		if err != nil {
			return fmt.Errorf("open %s store: %w", s.storeDriver, err)
		}
		s.store = st
	}
	_, transactional := s.store.(repository.Transactor)
	if s.atomicBatches && !transactional {
		s.logger.Warn(ctx, "store has no transactions, batches stay sequential",
			logger.String("driver", s.storeDriver),
		)
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithTTL(s.dedupeTTL))

	s.started = true
	s.logger.Info(ctx, "event board service started",
		logger.String("store", s.storeDriver),
		logger.Bool("atomicBatches", s.atomicBatches && transactional),
		logger.Int("maxRangeDays", s.maxRangeDays),
		logger.String("timezone", s.location.String()),
	)

	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping event board service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
		}
		s.store = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "event board service stopped")
}

// backend returns the store of a started service.
func (s *Service) backend() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// SeenAndRecord atomically checks if a submission key was seen and records it
// if not. Returns true for a duplicate.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	s.mu.RLock()
	d := s.deduper
	s.mu.RUnlock()
	if d == nil {
		return false
	}
	seen := d.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordDuplicateSubmission()
	}
	return seen
}

// Unrecord forgets a submission key so it can be retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.mu.RLock()
	d := s.deduper
	s.mu.RUnlock()
	if d != nil {
		d.Unrecord(ctx, key)
	}
}

// DefaultAuthor is the author recorded for anonymous notes.
func (s *Service) DefaultAuthor() string {
	return s.defaultAuthor
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"storeDriver":   s.storeDriver,
		"atomicBatches": s.atomicBatches,
		"maxRangeDays":  s.maxRangeDays,
		"timezone":      s.location.String(),
	}

	if s.started {
		records, err := s.store.List(context.Background())
		if err == nil {
			stats["totalRecords"] = len(records)
			metrics.UpdateStoreRecords(len(records))
		}
		stats["dedupeKeys"] = s.deduper.Size()
	}

	return stats
}

// storageFailure logs and counts a store error and returns it unchanged.
// Missing records are logged at warn level and not counted.
func (s *Service) storageFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn(ctx, "record not found", logger.String("op", op), logger.Error(err))
		return err
	}
	metrics.RecordStorageError(op)
	s.logger.Error(ctx, "store operation failed",
		logger.String("op", op),
		logger.Error(err),
	)
	return err
}
