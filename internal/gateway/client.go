// Package gateway is the typed client for the remote data service that
// owns all catalog and user persistence. Paths mirror the gateway's
// route table exactly, casing quirks included.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/allmart/storefront/config"
	"github.com/allmart/storefront/pkg/httpclient"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/metrics"
)

// Client talks to the data gateway. Zero value is not usable; build
// with New.
type Client struct {
	baseURL string
	timeout time.Duration
	retries int
}

// Option customizes the client.
type Option func(*Client)

// WithTimeout overrides the per-attempt timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries overrides the attempt count for idempotent reads (default 2).
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// New builds a gateway client against GATEWAY_BASE_URL.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: config.GatewayBaseURL(),
		timeout: 10 * time.Second,
		retries: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// url joins the base URL with a gateway path.
func (c *Client) url(path string) string {
	return c.baseURL + path
}

// observe wraps an operation with logging and the gateway-call histogram.
func observe(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := fn()

	outcome := "ok"
	switch {
	case IsNetwork(err):
		outcome = "network"
	case err != nil:
		outcome = "error"
	}
	metrics.ObserveGatewayCall(op, outcome, start)

	if err != nil {
		logger.WithCtx(ctx).Warn("gateway call failed", "operation", op, "error", err)
	}
	return err
}

// decode classifies the response and unmarshals the body into dest
// (dest may be nil when the body is irrelevant).
func decode(resp *httpclient.Response, err error, dest interface{}) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode == 404 {
		return ErrNotFound
	}
	if !resp.OK() {
		return &StatusError{Status: resp.StatusCode, Body: resp.Text()}
	}
	if dest == nil {
		return nil
	}
	if err := resp.JSON(dest); err != nil {
		return &StatusError{Status: resp.StatusCode, Body: "malformed body: " + err.Error()}
	}
	return nil
}
