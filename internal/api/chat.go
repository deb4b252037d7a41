// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Chat sends one question and returns the backend's answer.
func (c *Client) Chat(ctx context.Context, question string) (string, error) {
	const op = "chat"
	body, err := jsonBody(op, ChatRequest{Question: question})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, op, http.MethodPost, "/api/v1/chat", body, "application/json")
	if err != nil {
		return "", err
	}

	var resp ChatResponse
	if err := c.do(op, req, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	const op = "health"
	req, err := c.newRequest(ctx, op, http.MethodGet, "/health", nil, "")
	if err != nil {
		return nil, err
	}
	var resp HealthResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CREDENTIAL SERVICE
// =============================================================================

// Login exchanges a passphrase for a session token at a credential service.
// The client must be pointed at the service origin, not the backend.
func (c *Client) Login(ctx context.Context, passphrase string) (*LoginResponse, error) {
	const op = "login"
	body, err := jsonBody(op, LoginRequest{Passphrase: passphrase})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, op, http.MethodPost, "/api/v1/auth/login", body, "application/json")
	if err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
