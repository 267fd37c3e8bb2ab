// Package nrdb provides a rate-limited client for a NetrunnerDB-style
// card database API.
package nrdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public NetrunnerDB API root.
	DefaultBaseURL = "https://netrunnerdb.com/api/2.0/public"

	rateLimitDelay = 250 * time.Millisecond // 4 req/sec is plenty for bulk pulls
	requestTimeout = 30 * time.Second
)

// Client is a NetrunnerDB API client with rate limiting.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// NewClient creates a client against the given API root. An empty baseURL
// uses the public NetrunnerDB API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "ANR-Companion/1.0",
	}
}

// GetCards retrieves every card in the database.
func (c *Client) GetCards(ctx context.Context) ([]WireCard, error) {
	var env Envelope[WireCard]
	if err := c.doRequest(ctx, c.baseURL+"/cards", &env); err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	return env.Data, nil
}

// GetPacks retrieves every pack.
func (c *Client) GetPacks(ctx context.Context) ([]WirePack, error) {
	var env Envelope[WirePack]
	if err := c.doRequest(ctx, c.baseURL+"/packs", &env); err != nil {
		return nil, fmt.Errorf("failed to get packs: %w", err)
	}
	return env.Data, nil
}

// GetCycles retrieves every cycle.
func (c *Client) GetCycles(ctx context.Context) ([]WireCycle, error) {
	var env Envelope[WireCycle]
	if err := c.doRequest(ctx, c.baseURL+"/cycles", &env); err != nil {
		return nil, fmt.Errorf("failed to get cycles: %w", err)
	}
	return env.Data, nil
}

// GetMWL retrieves every published MWL revision.
func (c *Client) GetMWL(ctx context.Context) ([]WireMWL, error) {
	var env Envelope[WireMWL]
	if err := c.doRequest(ctx, c.baseURL+"/mwl", &env); err != nil {
		return nil, fmt.Errorf("failed to get mwl: %w", err)
	}
	return env.Data, nil
}

// FetchBundle pulls cards, packs, cycles, and MWL revisions and converts
// them to the domain model in one shot.
func (c *Client) FetchBundle(ctx context.Context) (*Bundle, error) {
	cycles, err := c.GetCycles(ctx)
	if err != nil {
		return nil, err
	}
	packs, err := c.GetPacks(ctx)
	if err != nil {
		return nil, err
	}
	wireCards, err := c.GetCards(ctx)
	if err != nil {
		return nil, err
	}
	revisions, err := c.GetMWL(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBundle(wireCards, packs, cycles, revisions), nil
}

// doRequest performs a rate-limited GET and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
