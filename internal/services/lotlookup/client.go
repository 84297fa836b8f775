package lotlookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"asn856/internal/services"
)

// Looker resolves the expiration date for a lot code.
type Looker interface {
	Expiration(ctx context.Context, lot string) (string, error)
}

// Client provides access to the lot expiration service.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
}

var _ Looker = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout replaces the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

type response struct {
	Expiration *string `json:"expiration"`
}

// New creates a lot lookup client for the given service URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("lot lookup base url required")
	}
	endpoint, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse lot lookup url: %w", err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("lot lookup url %q must be absolute", baseURL)
	}
	client := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Expiration fetches the expiration date recorded for lot. It returns an empty
// string with a nil error when the service answers successfully but knows no
// expiration for the lot.
func (c *Client) Expiration(ctx context.Context, lot string) (string, error) {
	lot = strings.TrimSpace(lot)
	if lot == "" {
		return "", services.Wrap(services.ErrValidation, "lot lookup", "expiration", "lot code must not be empty", nil)
	}

	endpoint := *c.endpoint
	params := endpoint.Query()
	params.Set("lot", lot)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		marker := services.ErrExternalService
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			marker = services.ErrTimeout
		}
		return "", services.Wrap(marker, "lot lookup", "expiration", fmt.Sprintf("lot %s (latency=%v)", lot, latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		marker := services.ErrExternalService
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrNotFound
		}
		return "", services.Wrap(marker, "lot lookup", "expiration",
			fmt.Sprintf("lot %s returned %d (latency=%v)", lot, resp.StatusCode, latency), nil)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrExternalService, "lot lookup", "decode", "lot "+lot, err)
	}
	if payload.Expiration == nil {
		return "", nil
	}
	return strings.TrimSpace(*payload.Expiration), nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
