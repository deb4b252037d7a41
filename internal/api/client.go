// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the backend origin used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxErrorBody bounds how much of an error response is read for a detail.
const maxErrorBody = 64 << 10

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend origin (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout bounds each request. Zero means no client-side timeout; the
	// backend's own latency governs.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		UserAgent: "minbao-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the advisory backend.
//
// The Client is safe for concurrent use; the bearer token may be set while
// requests are in flight.
//
// Example:
//
//	client := api.NewClient(cfg.Backend.URL)
//	answer, err := client.Chat(ctx, question)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for baseURL with default configuration.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.UserAgent == "" {
		config.UserAgent = "minbao-tui"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// SetToken sets the bearer token attached to every request. An empty token
// removes the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// newRequest builds a request against the backend origin.
func (c *Client) newRequest(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// jsonBody encodes v for a request body.
func jsonBody(op string, v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to marshal request", Cause: err}
	}
	return bytes.NewReader(data), nil
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
// Transport failures and non-2xx statuses map to distinct error types.
func (c *Client) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Op: op, Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeDecode, Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// statusError builds an ErrTypeStatus error, extracting the backend's
// {"detail": ...} when the body carries one.
func statusError(op string, resp *http.Response) error {
	e := &ClientError{
		Type:    ErrTypeStatus,
		Op:      op,
		Status:  resp.StatusCode,
		Message: "backend returned " + resp.Status,
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return e
	}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		e.Detail = body.text()
	}
	return e
}
