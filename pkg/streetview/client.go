// Package streetview builds, executes and interprets Street View Static API requests.
package streetview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/streetview-node/pkg/httpclient"
)

// DefaultTimeout bounds a single Street View request.
const DefaultTimeout = 30 * time.Second

// Client issues Street View requests through an httpclient.Client.
type Client struct {
	client  httpclient.Client
	baseURL string
	headers map[string]string
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// NewClient creates a Client. A nil http client falls back to resty with DefaultTimeout.
func NewClient(client httpclient.Client, opts ...Option) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(DefaultTimeout)
	}
	c := &Client{client: client, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Fetch performs one Street View request. A blank apiKey and invalid params
// are both reported before any network call.
func (c *Client) Fetch(ctx context.Context, apiKey string, p Params) (*Image, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("street view client is not initialized")
	}

	var errs []error
	if strings.TrimSpace(apiKey) == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	reqURL, err := BuildURL(c.baseURL, strings.TrimSpace(apiKey), p)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Get(ctx, reqURL, c.headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return Interpret(resp, p)
}
