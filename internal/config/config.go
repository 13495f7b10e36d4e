// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and EVENTBOARD_* env vars on top of the defaults.
// - Errors wrap ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// Supported store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the event store: memory, sqlite or mysql.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is handed to the sqlite or mysql driver.
	StoreDSN string `koanf:"store_dsn"`

	// AtomicBatches runs each range expansion inside one store transaction.
	AtomicBatches bool `koanf:"atomic_batches"`

	// MaxRangeDays caps how many records one submission may create.
	MaxRangeDays int `koanf:"max_range_days"`

	// DedupeTTLSeconds is how long Idempotency-Key values are remembered.
	DedupeTTLSeconds int `koanf:"dedupe_ttl_seconds"`

	// DefaultAuthor signs notes sent without an X-User header.
	DefaultAuthor string `koanf:"default_author"`

	// Timezone places clock times in the iCalendar export.
	Timezone string `koanf:"timezone"`

	// Venue is the location rendered in the venue colors.
	Venue             string `koanf:"venue"`
	VenueBackground   string `koanf:"venue_background"`
	VenueBorder       string `koanf:"venue_border"`
	DefaultBackground string `koanf:"default_background"`
	DefaultBorder     string `koanf:"default_border"`
	TextColor         string `koanf:"text_color"`

	// CompactBreakpoint is the width in pixels below which the week view
	// becomes a list.
	CompactBreakpoint int `koanf:"compact_breakpoint"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		StoreDriver:       StoreMemory,
		StoreDSN:          "eventboard.db",
		AtomicBatches:     false,
		MaxRangeDays:      62,
		DedupeTTLSeconds:  600,
		DefaultAuthor:     "Unknown",
		Timezone:          "Europe/Berlin",
		Venue:             "Aula",
		VenueBackground:   "#4ade80",
		VenueBorder:       "#22c55e",
		DefaultBackground: "#60a5fa",
		DefaultBorder:     "#3b82f6",
		TextColor:         "#000000",
		CompactBreakpoint: 640,
	}
}

// DedupeTTL is DedupeTTLSeconds as a duration.
func (c *Config) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSeconds) * time.Second
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite, StoreMySQL:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn must not be empty for %s", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.MaxRangeDays <= 0 {
		return fmt.Errorf("%w: max_range_days must be positive", ErrInvalidConfig)
	}
	if c.DedupeTTLSeconds <= 0 {
		return fmt.Errorf("%w: dedupe_ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
