package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// errRetryableStatus marks HTTP statuses worth another attempt.
var errRetryableStatus = errors.New("retryable inference status")

// client is the shared HTTP plumbing for the inference backends: JSON POST
// to {baseURL}/embed with bounded exponential-backoff retry.
type client struct {
	httpClient    *http.Client
	baseURL       string
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// Option is a functional option for the inference client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *client) { c.httpClient = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) { c.httpClient.Timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) Option {
	return func(c *client) { c.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) Option {
	return func(c *client) { c.initialDelay = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) Option {
	return func(c *client) { c.backoffFactor = f }
}

func newClient(baseURL string, opts ...Option) client {
	c := client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxRetries:    3,
		initialDelay:  500 * time.Millisecond,
		backoffFactor: 2.0,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// postEmbed sends the payload to the backend's /embed endpoint and returns
// the raw embedding vector. All failures wrap ErrEmbeddingFailure.
func (c client) postEmbed(ctx context.Context, backend string, payload any) ([]float64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: encode request: %v", speaker.ErrEmbeddingFailure, backend, err)
	}

	var vec []float64
	err = c.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			if retryableStatus(resp.StatusCode) {
				return fmt.Errorf("%w: %d: %s", errRetryableStatus, resp.StatusCode, msg)
			}
			return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		}

		var out embedResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if len(out.Embedding) == 0 {
			return errors.New("empty embedding in response")
		}
		vec = out.Embedding
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", speaker.ErrEmbeddingFailure, backend, err)
	}
	return vec, nil
}

// withRetry executes the function with exponential backoff retry.
func (c client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.initialDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * c.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func isRetryable(err error) bool {
	if errors.Is(err, errRetryableStatus) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
