// Package market provides a client for the public quote API used to
// build market snapshots. This package centralizes all market-data
// interactions for the application.
package market

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the quote API.
	DefaultBaseURL = "https://query2.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// DefaultMaxHeadlines caps the recent headlines carried per snapshot.
	DefaultMaxHeadlines = 3
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithMaxHeadlines caps the headlines retained per quote.
func WithMaxHeadlines(max int) ClientOption {
	return func(c *Client) {
		c.maxHeadlines = max
	}
}

// APIError represents an error from the quote API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Quote holds the fields the impact scorer consumes.
type Quote struct {
	CurrentPrice   float64
	HasPrice       bool
	Recommendation string
	TargetPrice    float64
	HasTarget      bool
}
