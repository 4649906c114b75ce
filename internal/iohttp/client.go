// Package iohttp provides the HTTP transport used to talk to occurrence
// web services. This is an impure I/O package.
//
// Requests are rate limited, we do not want to overload the server.
// Failed requests are not retried, errors go back to the caller.
package iohttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gnames/occdl/pkg/config"
	"golang.org/x/time/rate"
)

// snippetSize is the maximum size of a response body kept in errors.
const snippetSize = 512

var errHeaderTimeout = errors.New("timeout waiting for response headers")

// Client performs GET requests against occurrence web services.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	timeout   time.Duration
}

// New creates a Client from API settings.
func New(cfg *config.Config) *Client {
	rps := cfg.API.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		// timeouts are set per request, downloads take longer than
		// metadata requests
		http:      &http.Client{},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		userAgent: cfg.API.UserAgent,
		timeout:   cfg.API.Timeout,
	}
}

// GetJSON requests url and decodes a JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return DecodeError(url, err)
	}
	return nil
}

// GetBytes requests url and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	res, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, RequestError(url, err)
	}
	return res, nil
}

// Stream requests url and returns the response for streaming of large
// bodies. The caller must close the body and call the returned cancel
// function. Only the wait for response headers is limited by the
// timeout, reading of the body is limited by ctx alone.
func (c *Client) Stream(
	ctx context.Context,
	url string,
) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	timer := time.AfterFunc(c.timeout, func() { cancel(errHeaderTimeout) })

	resp, err := c.do(ctx, url, "")
	fired := !timer.Stop()
	if err == nil && fired {
		resp.Body.Close()
		err = RequestError(url, errHeaderTimeout)
	}
	if err != nil {
		if context.Cause(ctx) == errHeaderTimeout {
			err = RequestError(url, errHeaderTimeout)
		}
		cancel(nil)
		return nil, nil, err
	}
	return resp, func() { cancel(nil) }, nil
}

func (c *Client) do(
	ctx context.Context,
	url string,
	accept string,
) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, RequestError(url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, RequestError(url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	slog.Debug("HTTP request", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, RequestError(url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, snippetSize))
		return nil, StatusError(url, resp.StatusCode,
			strings.TrimSpace(string(body)))
	}
	return resp, nil
}
