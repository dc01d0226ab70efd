// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nextgensoft/ragdesk/internal/auth"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 10 * 1024 * 1024

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// Client talks to the ragdesk backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	tokens     auth.TokenSource
	httpClient *http.Client
	// streamClient has no overall timeout: an event stream is open-ended
	// and is bounded by the request context instead.
	streamClient *http.Client
	limiter      *rate.Limiter
	maxRetries   int
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds non-streaming requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRetries caps retry attempts for retryable failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRateLimit sets the client-side request budget.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces both transports, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.streamClient = hc
	}
}

// NewClient builds a client for the backend at baseURL. Tokens come from
// the given source on every request, so a re-login takes effect without
// rebuilding the client.
func NewClient(baseURL string, tokens auth.TokenSource, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		httpClient:   &http.Client{Timeout: defaultTimeout, Transport: transport},
		streamClient: &http.Client{Transport: transport},
		limiter:      rate.NewLimiter(rate.Limit(10), 20),
		maxRetries:   defaultMaxRetries,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get/post/put/del run one JSON request and return the raw payload with
// the response envelope already removed.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) del(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBackoff(attempt)
			c.logger.Debug("retrying request",
				"method", method, "path", path, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = &APIError{Status: 0, Message: err.Error()}
			continue
		}

		raw, apiErr := c.readResponse(resp)
		if apiErr == nil {
			return raw, nil
		}
		lastErr = apiErr
		if !isRetryable(apiErr) {
			return nil, apiErr
		}
	}
	return nil, lastErr
}

// readResponse consumes the body and either returns the unwrapped payload
// or the typed error for a non-2xx status. An unparseable success body
// degrades to an empty object rather than an error.
func (c *Client) readResponse(resp *http.Response) (json.RawMessage, *APIError) {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &APIError{Status: 0, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	if len(data) == 0 || !json.Valid(data) {
		return json.RawMessage("{}"), nil
	}
	return unwrapEnvelope(data), nil
}

// unwrapEnvelope strips the backend's {message, data} wrapper. Some routes
// nest it twice, so up to two levels come off; a payload without a data
// field passes through untouched.
func unwrapEnvelope(raw json.RawMessage) json.RawMessage {
	for i := 0; i < 2; i++ {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return raw
		}
		raw = env.Data
	}
	return raw
}

// errorMessage digs a human-readable message out of an error body, trying
// the backend's shapes in order.
func errorMessage(data []byte, status int) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if len(body.Detail) > 0 {
			var s string
			if json.Unmarshal(body.Detail, &s) == nil && s != "" {
				return s
			}
			return string(body.Detail)
		}
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(status)
}

// isRetryable reports whether the failure is worth another attempt:
// network errors, 5xx, and 429. Client errors never retry.
func isRetryable(err *APIError) bool {
	return err.Status == 0 || err.Status == 429 || err.Status >= 500
}

// retryBackoff doubles from the base delay per attempt, capped.
func retryBackoff(attempt int) time.Duration {
	delay := retryBaseDelay << uint(attempt-1)
	if delay > retryMaxDelay || delay <= 0 {
		return retryMaxDelay
	}
	return delay
}

// decodeAs decodes an unwrapped payload into a concrete type.
func decodeAs[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}
