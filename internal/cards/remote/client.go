// Package remote fetches missing card images from the configured remote
// base location.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	rateLimitDelay = 100 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client downloads card images with rate limiting and bounded retry.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
	maxRetries  int
	backoff     time.Duration
}

// ClientOptions configures the remote image client.
type ClientOptions struct {
	// BaseURL is the remote base; the image identifier is appended to it
	// verbatim to form the request URL.
	BaseURL string

	// RateLimit controls request frequency (default: 1 req/100ms).
	RateLimit rate.Limit

	// Timeout for HTTP requests (default: 30 seconds).
	Timeout time.Duration

	// MaxRetries bounds retry attempts after the first try (default: 3).
	MaxRetries int

	// InitialBackoff is the first retry delay; it doubles per attempt up
	// to a 16s cap (default: 1 second).
	InitialBackoff time.Duration

	// HTTPClient allows a custom HTTP client.
	HTTPClient *http.Client
}

// DefaultClientOptions returns default client options for the given base
// URL.
func DefaultClientOptions(baseURL string) ClientOptions {
	return ClientOptions{
		BaseURL:    baseURL,
		RateLimit:  rate.Every(rateLimitDelay),
		Timeout:    requestTimeout,
		MaxRetries: maxRetries,
	}
}

// NewClient creates a new remote image client.
func NewClient(options ClientOptions) *Client {
	if options.RateLimit == 0 {
		options.RateLimit = rate.Every(rateLimitDelay)
	}
	if options.Timeout == 0 {
		options.Timeout = requestTimeout
	}
	if options.MaxRetries == 0 {
		options.MaxRetries = maxRetries
	}
	if options.InitialBackoff == 0 {
		options.InitialBackoff = initialBackoff
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	return &Client{
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(options.RateLimit, 1),
		baseURL:     options.BaseURL,
		userAgent:   "RideCore-Companion/1.0",
		maxRetries:  options.MaxRetries,
		backoff:     options.InitialBackoff,
	}
}

// URL returns the remote URL for an image identifier.
func (c *Client) URL(identifier string) string {
	return c.baseURL + identifier
}

// FetchImage downloads the image for the given identifier. Transient
// failures (network errors, 429, 5xx) are retried with exponential
// backoff up to the configured bound.
func (c *Client) FetchImage(ctx context.Context, identifier string) ([]byte, error) {
	if identifier == "" {
		return nil, fmt.Errorf("image identifier is empty")
	}

	url := c.URL(identifier)
	backoff := c.backoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		data, retryable, err := c.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}

	return nil, fmt.Errorf("fetch image %s: %w", url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read response body: %w", err)
		}
		return body, false, nil

	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)

	default:
		return nil, false, fmt.Errorf("status %d", resp.StatusCode)
	}
}
