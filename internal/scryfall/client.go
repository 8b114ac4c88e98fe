// Package scryfall fetches and decodes Scryfall bulk card data.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/service"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Scryfall API.
	DefaultBaseURL = "https://api.scryfall.com"
	// OracleCards is the bulk file with one entry per unique card.
	OracleCards = "oracle-cards"

	rateLimitDelay  = 100 * time.Millisecond // 10 req/sec
	requestTimeout  = 30 * time.Second
	downloadTimeout = 10 * time.Minute
	userAgent       = "deckstat/1.0"
)

// Client is a rate-limited Scryfall API client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	retry       service.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the retry policy for API calls.
func WithRetry(opts service.RetryOptions) Option {
	return func(c *Client) { c.retry = opts }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     DefaultBaseURL,
		retry: service.RetryOptions{
			MaxAttempts:  4,
			InitialDelay: time.Second,
			MaxDelay:     16 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBulkData returns metadata for one bulk file type, e.g. OracleCards.
func (c *Client) GetBulkData(ctx context.Context, bulkType string) (*BulkData, error) {
	var bulk BulkData
	url := fmt.Sprintf("%s/bulk-data/%s", c.baseURL, bulkType)
	if err := c.doRequest(ctx, url, &bulk); err != nil {
		return nil, fmt.Errorf("failed to get bulk data %s: %w", bulkType, err)
	}
	if bulk.DownloadURI == "" {
		return nil, fmt.Errorf("bulk data %s has no download uri", bulkType)
	}
	return &bulk, nil
}

// ProgressFunc returns a writer that observes downloaded bytes. total is -1
// when the server sends no content length.
type ProgressFunc func(total int64) io.Writer

// Download streams uri into dest. The file is written to a temp file in
// the same directory and renamed into place only after a complete copy.
func (c *Client) Download(ctx context.Context, uri, dest string, progress ProgressFunc) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	// Body reads are bounded by ctx, not the short API timeout.
	hc := *c.httpClient
	hc.Timeout = 0
	resp, err := hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download bulk file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code downloading bulk file: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "bulk-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	var w io.Writer = tmp
	if progress != nil {
		if pw := progress(resp.ContentLength); pw != nil {
			w = io.MultiWriter(tmp, pw)
		}
	}

	written, err := io.Copy(w, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write bulk file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move bulk file into place: %w", err)
	}

	return written, nil
}

// doRequest performs a GET with rate limiting and retry on 429/5xx and
// network errors.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	return common.WithRetry(ctx, func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return common.Permanent(fmt.Errorf("rate limiter error: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return common.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, result); err != nil {
				return common.Permanent(fmt.Errorf("failed to parse JSON response: %w", err))
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(secs) * time.Second):
				}
			}
			return fmt.Errorf("scryfall: %w", common.ErrRateLimit)
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("scryfall server error: HTTP %d", resp.StatusCode)
		default:
			var apiErr APIError
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
				return common.Permanent(&apiErr)
			}
			return common.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}
	}, c.retry)
}
