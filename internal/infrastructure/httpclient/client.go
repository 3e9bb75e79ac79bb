// Package httpclient is a traced JSON client for calls to collaborator services.
// Every request runs in a client span and carries W3C trace context headers.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/marketplace/backend/internal/infrastructure/telemetry"
)

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx response
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Client posts JSON to one collaborator service.
// It sets no overall timeout: deadlines come from the request context.
type Client struct {
	service string
	baseURL *url.URL
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// New creates a client for service rooted at baseURL
func New(service, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url %q: %w", service, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme and host are required", service, baseURL)
	}

	c := &Client{
		service: service,
		baseURL: u,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PostJSON sends in as a JSON body to path and decodes a 2xx response into out.
// Non-2xx responses return *StatusError; transport and context errors are wrapped with %w.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	target := c.baseURL.JoinPath(path)
	ctx, span := telemetry.StartClientSpan(ctx, c.service,
		telemetry.AttrHTTPMethod.String(http.MethodPost),
		telemetry.AttrURLFull.String(target.String()),
	)
	defer span.End()

	body, err := json.Marshal(in)
	if err != nil {
		return c.fail(span, fmt.Errorf("failed to encode %s request: %w", c.service, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return c.fail(span, fmt.Errorf("failed to build %s request: %w", c.service, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(span, fmt.Errorf("%s request failed: %w", c.service, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(telemetry.AttrHTTPStatusCode.Int(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.fail(span, &StatusError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(span, fmt.Errorf("failed to decode %s response: %w", c.service, err))
	}
	return nil
}

func (c *Client) fail(span trace.Span, err error) error {
	telemetry.Fail(span, err)
	return err
}
