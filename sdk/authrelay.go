// Package authrelay provides a Go client for the authrelay popup login
// service.
//
// The service mediates an OAuth2 authorization-code login for pages that
// cannot perform a top-level redirect (iframe-hosted embeds). The client
// starts a flow, hands the consent URL to a popup opener, and polls the
// status endpoint until the flow resolves:
//
//	client := authrelay.New("https://auth.example.com")
//
//	result, err := client.Login(ctx, func(popupURL string) error {
//	    return browser.OpenWindow(popupURL)
//	})
package authrelay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPollInterval spaces status checks; ticks never overlap.
	DefaultPollInterval = time.Second
	// DefaultMaxAttempts bounds polling to 5 minutes at the default
	// interval, mirroring the server's session TTL.
	DefaultMaxAttempts = 300
)

// Client talks to one authrelay server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxAttempts  int
	popupClosed  func() bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPollInterval overrides the spacing between status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithMaxAttempts overrides the status-check budget.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// WithPopupObserver installs a probe reporting whether the popup window has
// been closed. Closure is a secondary signal only: a closed popup never
// cancels polling, because the result may still arrive from an in-flight
// callback. It is surfaced on the Result for UI hints.
func WithPopupObserver(closed func() bool) Option {
	return func(c *Client) {
		c.popupClosed = closed
	}
}

// New creates a client for the authrelay server at baseURL
// (e.g. "https://auth.example.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Health checks that the server is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/health", &out, http.StatusOK)
}

func (c *Client) getJSON(ctx context.Context, path string, out any, expectedStatuses ...int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for _, s := range expectedStatuses {
		if resp.StatusCode == s {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("authrelay: decode response: %w", err)
			}
			return nil
		}
	}
	return parseError(resp)
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		e.Message = body.Error
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
