package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Veraticus/deckstat/internal/common"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends one prompt and returns the model's text reply.
	Complete(ctx context.Context, prompt string) (string, error)
	// Model names the model answering, for cache bookkeeping.
	Model() string
}

// Config selects and configures a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

const systemPrompt = "You categorize Magic: The Gathering cards for Commander deck analysis. " +
	"Respond with ONLY a valid JSON object. Do not include explanatory text or markdown formatting."

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// checkStatus maps provider status codes onto retry semantics: 429 and 5xx
// are retried, any other failure is permanent.
func checkStatus(provider string, resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s API: %w", provider, common.ErrRateLimit)
	case resp.StatusCode >= http.StatusInternalServerError:
		return &common.RetryableError{
			Err:       fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, truncate(body)),
			Retryable: true,
		}
	default:
		return common.Permanent(fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, truncate(body)))
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
