package seeding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/eventboard/pkg/logger"
)

// Run seeds the service from the configured fixture and verifies the
// spanning calendar.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting eventboard seeding",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("fixture", cfg.FixturePath),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Bool("verbose", cfg.Verbose))

	client := newHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	fixture, err := LoadFixtureFile(cfg.FixturePath)
	if err != nil {
		return stats, fmt.Errorf("fixture loading failed: %w", err)
	}
	stats.RequestsLoaded = len(fixture.Requests)

	submitRequests(ctx, client, cfg, fixture.Requests, stats)

	cal, err := fetchCalendar(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("calendar retrieval failed: %w", err)
	}
	stats.ItemsRendered = len(cal.Items)

	verified, mismatches := Verify(fixture.Requests, cal.Items)
	stats.SpansVerified = verified
	stats.SpansMismatched = len(mismatches)
	for _, m := range mismatches {
		log.Warn(ctx, "span mismatch", logger.String("detail", m.String()))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.RequestsFailed > 0 {
		return stats, fmt.Errorf("%d of %d requests failed", stats.RequestsFailed, stats.RequestsLoaded)
	}
	if len(mismatches) > 0 {
		return stats, fmt.Errorf("%w: %d spans", ErrVerification, len(mismatches))
	}
	log.Info(ctx, "seeding completed successfully")
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate float64
	if stats.RequestsSubmitted > 0 {
		successRate = float64(stats.RequestsCreated+stats.RequestsDuplicate) / float64(stats.RequestsSubmitted) * percentageMultiplier
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("requestsLoaded", stats.RequestsLoaded),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsCreated", stats.RequestsCreated),
		logger.Int("requestsDuplicate", stats.RequestsDuplicate),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("recordsCreated", stats.RecordsCreated),
		logger.Int("itemsRendered", stats.ItemsRendered),
		logger.Int("spansVerified", stats.SpansVerified),
		logger.Int("spansMismatched", stats.SpansMismatched),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate))
}
