// Package scraper collects catalog data from the card wiki.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// WikiBaseURL is the card database wiki.
	WikiBaseURL = "https://cardfight.fandom.com"

	// WikiTimeout bounds each page fetch.
	WikiTimeout = 30 * time.Second
)

// WikiRateLimit keeps the crawl polite (1 request per 2 seconds).
var WikiRateLimit = rate.Every(2 * time.Second)

// Scraper fetches and parses wiki pages.
type Scraper struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// Options configures the scraper.
type Options struct {
	// BaseURL overrides the wiki root (default: WikiBaseURL).
	BaseURL string

	// RateLimit controls request frequency (default: 1 req/2 seconds).
	RateLimit rate.Limit

	// Timeout for HTTP requests (default: 30 seconds).
	Timeout time.Duration

	// HTTPClient allows a custom HTTP client.
	HTTPClient *http.Client
}

// DefaultOptions returns default scraper options.
func DefaultOptions() Options {
	return Options{
		BaseURL:   WikiBaseURL,
		RateLimit: WikiRateLimit,
		Timeout:   WikiTimeout,
	}
}

// New creates a wiki scraper.
func New(options Options) *Scraper {
	if options.BaseURL == "" {
		options.BaseURL = WikiBaseURL
	}
	if options.RateLimit == 0 {
		options.RateLimit = WikiRateLimit
	}
	if options.Timeout == 0 {
		options.Timeout = WikiTimeout
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	return &Scraper{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(options.RateLimit, 1),
		baseURL:    strings.TrimRight(options.BaseURL, "/"),
	}
}

// CardPagePath returns the wiki path for a card name.
func CardPagePath(name string) string {
	return "/wiki/" + url.PathEscape(strings.ReplaceAll(name, " ", "_"))
}

// FetchSet downloads a set page and returns the card rows of its list
// table.
func (s *Scraper) FetchSet(ctx context.Context, setPath string) ([]CardStub, error) {
	body, err := s.get(ctx, setPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	stubs, err := ParseSetTable(body)
	if err != nil {
		return nil, fmt.Errorf("parse set page %s: %w", setPath, err)
	}
	log.Printf("[Scraper] Parsed %d cards from %s", len(stubs), setPath)
	return stubs, nil
}

// FetchCard downloads a card page and extracts its image URL and effect
// text.
func (s *Scraper) FetchCard(ctx context.Context, pagePath string) (*CardDetail, error) {
	body, err := s.get(ctx, pagePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	detail, err := ParseCardPage(body)
	if err != nil {
		return nil, fmt.Errorf("parse card page %s: %w", pagePath, err)
	}
	return detail, nil
}

// get performs a rate-limited GET of a wiki path.
func (s *Scraper) get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	fullURL := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RideCore-Companion/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, fullURL)
	}
	return resp.Body, nil
}
