package seeding

import (
	"time"

	"github.com/okian/eventboard/internal/domain/render"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL     string        // Base URL of the service
	FixturePath string        // YAML fixture; empty uses the built-in sample
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for run output
	Verbose     bool          // Log every submission
}

// AckResponse is the body of a duplicate submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// CalendarResponse is the subset of GET /calendar the verifier reads.
type CalendarResponse struct {
	Mode      render.Mode   `json:"mode"`
	Sequences int           `json:"sequences"`
	Items     []render.Item `json:"items"`
}

// Stats holds run statistics.
type Stats struct {
	RequestsLoaded    int
	RequestsSubmitted int
	RequestsCreated   int
	RequestsDuplicate int
	RequestsFailed    int
	RecordsCreated    int
	ItemsRendered     int
	SpansVerified     int
	SpansMismatched   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
