package courselookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/gofiber/fiber/v2/log"
)

const (
	// DefaultBaseURL is where the planner's own API serves course data.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 10 * time.Second
)

// Client fetches course details from the enrichment service at
// GET {BaseURL}/api/course/{code}.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig RetryConfig
}

// Config holds configuration for the lookup client
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryConfig *RetryConfig // Optional, defaults to DefaultRetryConfig
	HTTPClient  *http.Client // Optional, overrides Timeout
}

// RetryConfig controls retries of transient failures.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig makes a single attempt. A failed lookup is final for
// that load; set MaxRetries to retry transient statuses.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     0,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}

var errRequestFailed = errors.New("request failed")

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "failed to fetch course data: " + e.Status
}

// NewClient creates a lookup client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	retryConfig := DefaultRetryConfig()
	if config.RetryConfig != nil {
		retryConfig = *config.RetryConfig
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		httpClient:  httpClient,
		retryConfig: retryConfig,
	}
}

// LookupCourse implements program.CourseLookup.
func (c *Client) LookupCourse(ctx context.Context, code string) (program.CourseInfo, error) {
	endpoint := c.baseURL + "/api/course/" + url.PathEscape(code)

	var lastErr error
	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := CalculateBackoff(attempt-1, c.retryConfig)
			log.Debugf("retrying course lookup for %s in %v: %v", code, backoff, lastErr)
			select {
			case <-ctx.Done():
				return program.CourseInfo{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		info, err := c.fetch(ctx, endpoint)
		if err == nil {
			return info, nil
		}
		lastErr = err
		if !isRetryable(err) || ctx.Err() != nil {
			break
		}
	}
	return program.CourseInfo{}, lastErr
}

func (c *Client) fetch(ctx context.Context, endpoint string) (program.CourseInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return program.CourseInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return program.CourseInfo{}, fmt.Errorf("%w: %w", errRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return program.CourseInfo{}, &StatusError{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	var info program.CourseInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return program.CourseInfo{}, fmt.Errorf("failed to decode course data: %w", err)
	}
	return info, nil
}

// statusText returns the reason phrase, e.g. "Not Found".
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// IsRetryableStatusCode reports whether a status is worth retrying:
// 408, 429 and 5xx.
func IsRetryableStatusCode(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return IsRetryableStatusCode(statusErr.StatusCode)
	}
	// Transport errors are retried; decode errors are not.
	return errors.Is(err, errRequestFailed)
}

// CalculateBackoff returns initialBackoff * 2^attempt, capped at maxBackoff.
func CalculateBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := config.InitialBackoff * time.Duration(1<<uint(attempt))
	if backoff > config.MaxBackoff {
		return config.MaxBackoff
	}
	return backoff
}

var _ program.CourseLookup = (*Client)(nil)
