// Package weather proxies current-conditions lookups to an external
// weather API so the client never sees the upstream API key.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
)

const (
	requestTimeout = 10 * time.Second

	// maxResponseBytes caps how much of the upstream body we will relay.
	maxResponseBytes = 1 << 20
)

// Client fetches current weather from the configured upstream.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client for the given upstream base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Current fetches the current conditions for city and returns the upstream
// JSON payload unchanged.
func (c *Client) Current(ctx context.Context, city string) (json.RawMessage, *errs.CustomError) {
	q := url.Values{}
	q.Set("q", city)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ErrInternal, fmt.Errorf("build weather request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		logx.Warn("weather upstream unreachable", "city", city, "error", err.Error())
		return nil, errs.New(errs.ErrUpstream)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		logx.Warn("weather upstream read failed", "city", city, "error", err.Error())
		return nil, errs.New(errs.ErrUpstream)
	}

	if res.StatusCode != http.StatusOK {
		logx.Warn("weather upstream error", "city", city, "status", res.StatusCode)
		return nil, errs.New(errs.ErrUpstream)
	}

	if !json.Valid(body) {
		logx.Warn("weather upstream returned invalid JSON", "city", city)
		return nil, errs.New(errs.ErrUpstream)
	}

	return json.RawMessage(body), nil
}
