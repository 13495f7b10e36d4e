package seeding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request against path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body and extra headers.
func (c *HTTPClient) Post(ctx context.Context, path string, body any, headers map[string]string) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// IdempotencyKey derives a stable key for the request at position index, so
// re-running a fixture inside the dedupe window yields duplicates.
func IdempotencyKey(index int, req expansion.Request) string {
	name := strconv.Itoa(index) + "|" + req.Name + "|" + req.StartDate + "|" + req.EndDate + "|" + req.Location
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// submission is the outcome of posting one request.
type submission struct {
	outcome string
	result  service.BatchResult
	err     error
}

// submitRequests posts every request in order.
func submitRequests(ctx context.Context, client *HTTPClient, cfg *Config, reqs []expansion.Request, stats *Stats) []submission {
	log := logger.Get()
	out := make([]submission, len(reqs))
	for i, req := range reqs {
		if ctx.Err() != nil {
			out[i] = submission{outcome: outcomeFailed, err: ctx.Err()}
			stats.RequestsFailed++
			continue
		}
		s := submitSingle(ctx, client, i, req)
		out[i] = s
		stats.RequestsSubmitted++
		switch s.outcome {
		case outcomeCreated:
			stats.RequestsCreated++
			stats.RecordsCreated += s.result.Created
		case outcomeDuplicate:
			stats.RequestsDuplicate++
		default:
			stats.RequestsFailed++
			log.Warn(ctx, "request failed",
				logger.Int("index", i),
				logger.String("name", req.Name),
				logger.Error(s.err))
			continue
		}
		if cfg.Verbose {
			log.Info(ctx, "request submitted",
				logger.Int("index", i),
				logger.String("name", req.Name),
				logger.String("outcome", s.outcome),
				logger.Strings("ids", s.result.IDs()))
		}
	}
	return out
}

func submitSingle(ctx context.Context, client *HTTPClient, index int, req expansion.Request) submission {
	resp, err := client.Post(ctx, "/events", req, map[string]string{
		headerIdempotencyKey: IdempotencyKey(index, req),
		headerUser:           seedAuthor,
	})
	if err != nil {
		return submission{outcome: outcomeFailed, err: err}
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return submission{outcome: outcomeFailed, err: err}
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var res service.BatchResult
		if err := json.Unmarshal(body, &res); err != nil {
			return submission{outcome: outcomeFailed, err: fmt.Errorf("decode batch result: %w", err)}
		}
		return submission{outcome: outcomeCreated, result: res}
	case http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return submission{outcome: outcomeDuplicate}
		}
		return submission{outcome: outcomeFailed, err: fmt.Errorf("%w: 200 without duplicate ack", ErrUnexpectedCode)}
	default:
		return submission{outcome: outcomeFailed, err: fmt.Errorf("%w: %d: %s", ErrUnexpectedCode, resp.StatusCode, bytes.TrimSpace(body))}
	}
}

// fetchCalendar reads the spanning calendar.
func fetchCalendar(ctx context.Context, client *HTTPClient) (CalendarResponse, error) {
	resp, err := client.Get(ctx, "/calendar?mode=spanning")
	if err != nil {
		return CalendarResponse{}, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return CalendarResponse{}, fmt.Errorf("failed to read calendar: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return CalendarResponse{}, fmt.Errorf("%w: %d", ErrUnexpectedCode, resp.StatusCode)
	}
	var cal CalendarResponse
	if err := json.Unmarshal(body, &cal); err != nil {
		return CalendarResponse{}, fmt.Errorf("decode calendar: %w", err)
	}
	return cal, nil
}
