package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// headerPool holds the rotated request header sets. Sites answer
// differently depending on the client profile, so each retry uses the
// next set.
var headerPool = []map[string]string{
	{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		"Accept-Language": "uk-UA,ru;q=0.8,en;q=0.7",
	},
	{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0",
		"Accept-Language": "uk-UA,uk;q=0.9,en;q=0.5",
	},
}

const maxBodySize = 5 * 1024 * 1024

// Client fetches pages with header rotation, bounded retry, and a
// minimum spacing between requests shared across all callers.
type Client struct {
	client   HTTPClient
	limiter  *rate.Limiter
	timeout  time.Duration
	retries  uint64
	backoff  time.Duration
	attempts atomic.Uint64
}

// NewClient creates a Client. spacing is the minimum delay between any
// two outgoing requests; zero disables pacing.
func NewClient(client HTTPClient, spacing time.Duration) *Client {
	limit := rate.Inf
	if spacing > 0 {
		limit = rate.Every(spacing)
	}
	return &Client{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		timeout: 25 * time.Second,
		retries: 2,
		backoff: 500 * time.Millisecond,
	}
}

// Get downloads the page at url, retrying transient failures with the
// next header set from the pool.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	var body string
	backoff := retry.WithMaxRetries(c.retries, retry.NewConstant(c.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		headers := headerPool[c.attempts.Add(1)%uint64(len(headerPool))]
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("http get: %w", err))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return retry.RetryableError(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("read body: %w", err))
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return body, nil
}
