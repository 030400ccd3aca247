// Package scryfall downloads the bulk card dataset used to build the
// card catalog snapshot.
package scryfall

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
	baseURL         = "https://api.scryfall.com"
	rateLimitDelay  = 100 * time.Millisecond // 10 req/sec, per API guidelines
	requestTimeout  = 5 * time.Minute        // bulk downloads are large
	maxRetries      = 3
	initialBackoff  = 1 * time.Second
	maxBackoff      = 16 * time.Second
	oracleCardsType = "oracle_cards"
)

// Client is a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// NewClient creates a new Scryfall API client.
func NewClient(userAgent string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   userAgent,
	}
}

// GetBulkData retrieves the list of available bulk datasets.
func (c *Client) GetBulkData(ctx context.Context) (*BulkDataList, error) {
	body, err := c.get(ctx, baseURL+"/bulk-data")
	if err != nil {
		return nil, fmt.Errorf("failed to get bulk data listing: %w", err)
	}
	defer func() { _ = body.Close() }()

	var list BulkDataList
	if err := json.NewDecoder(body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse bulk data listing: %w", err)
	}
	return &list, nil
}

// OracleCards streams the oracle-cards bulk dataset, invoking fn for
// each card. The dataset is a single large JSON array; cards are
// decoded one at a time to keep memory bounded.
func (c *Client) OracleCards(ctx context.Context, fn func(BulkCard) error) error {
	list, err := c.GetBulkData(ctx)
	if err != nil {
		return err
	}

	var downloadURI string
	for _, bd := range list.Data {
		if bd.Type == oracleCardsType {
			downloadURI = bd.DownloadURI
			break
		}
	}
	if downloadURI == "" {
		return fmt.Errorf("bulk data listing has no %s dataset", oracleCardsType)
	}

	body, err := c.get(ctx, downloadURI)
	if err != nil {
		return fmt.Errorf("failed to download oracle cards: %w", err)
	}
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	if _, err := dec.Token(); err != nil { // opening '['
		return fmt.Errorf("failed to parse oracle cards: %w", err)
	}
	for dec.More() {
		var card BulkCard
		if err := dec.Decode(&card); err != nil {
			return fmt.Errorf("failed to decode oracle card: %w", err)
		}
		if err := fn(card); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return fmt.Errorf("failed to parse oracle cards: %w", err)
	}

	return nil
}

// get performs a rate-limited GET with retries and exponential backoff,
// returning the response body on success.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
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
			return nil, &NotFoundError{URL: url}

		default:
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return nil, &apiErr
			}
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
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
