// Package cubecobra fetches source cube lists and their update history
// from cubecobra.com.
package cubecobra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"cubeforge/internal/cube"
)

const (
	defaultBaseURL = "https://cubecobra.com"
	rateLimitDelay = 250 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a rate-limited CubeCobra client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the CubeCobra base URL. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// NewClient creates a new CubeCobra client.
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCube fetches a cube's mainboard list. The returned SourceCube has
// no LastModified; the fetcher fills it in from the cube's RSS feed.
func (c *Client) GetCube(ctx context.Context, cubeID string) (*cube.SourceCube, error) {
	url := fmt.Sprintf("%s/cube/api/cubejson/%s", c.baseURL, cubeID)

	body, err := c.get(ctx, url, cubeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cube %s: %w", cubeID, err)
	}
	defer func() { _ = body.Close() }()

	var payload cubeJSON
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse cube %s: %w", cubeID, err)
	}

	src := &cube.SourceCube{
		ID:       cubeID,
		Category: payload.CategoryOverride,
		Cards:    make([]string, 0, len(payload.Cards.Mainboard)),
	}
	for _, entry := range payload.Cards.Mainboard {
		if entry.Details.Name == "" {
			continue
		}
		src.Cards = append(src.Cards, entry.Details.Name)
	}

	return src, nil
}

// get performs a rate-limited GET with retries and exponential backoff.
func (c *Client) get(ctx context.Context, url, cubeID string) (io.ReadCloser, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return resp.Body, nil

		case http.StatusTooManyRequests:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return nil, lastErr

		case http.StatusNotFound:
			_ = resp.Body.Close()
			return nil, &NotFoundError{CubeID: cubeID}

		default:
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
