// Package curseforge is a small client for the CurseForge REST API covering
// the calls the language updater needs.
package curseforge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/langpack/mod-lang-updater/internal/config"
	"github.com/langpack/mod-lang-updater/internal/logging"
)

const (
	maxRetries = 3
	// Only gateway timeouts are retried; the API returns them under load.
	retryStatus = http.StatusGatewayTimeout
)

// HTTPError is returned for any non-200 response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	retryDelay time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryDelay sets the base backoff; attempt n waits n times this value.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func New(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.APIBaseURL,
		apiKey:     cfg.APIKey,
		http:       http.DefaultClient,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches url, retrying up to maxRetries times on retryStatus with a
// linearly increasing delay. The API key is only sent to the API itself.
func (c *Client) get(ctx context.Context, url string, withKey bool) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			logging.Warnf("retrying %s (%d/%d)\n", url, attempt, maxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		body, err := c.getOnce(ctx, url, withKey)
		if err == nil {
			return body, nil
		}
		var httpErr *HTTPError
		if attempt < maxRetries && errors.As(err, &httpErr) && httpErr.StatusCode == retryStatus {
			continue
		}
		return nil, err
	}
}

func (c *Client) getOnce(ctx context.Context, url string, withKey bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if withKey {
		req.Header.Set("Accept", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
	}

	logging.Debugf("Verbose: GET %s\n", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

// Download fetches raw bytes, e.g. a mod archive from the CDN.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	data, err := c.get(ctx, url, false)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	return data, nil
}
