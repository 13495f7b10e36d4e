package seeding

import "time"

// Header names understood by the service.
const (
	headerIdempotencyKey = "Idempotency-Key"
	headerUser           = "X-User"
)

// Submission outcomes.
const (
	outcomeCreated   = "created"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

const (
	seedAuthor           = "Seeder"
	defaultTimeout       = 30 * time.Second
	percentageMultiplier = 100
	logFilePermission    = 0600
)
