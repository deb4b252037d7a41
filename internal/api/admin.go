// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/minbao/minbao-tui/internal/model"
)

const adminPrefix = "/api/v1/admin"

// =============================================================================
// CONFIG
// =============================================================================

// GetConfig fetches the backend's model configuration.
func (c *Client) GetConfig(ctx context.Context) (model.AdminConfig, error) {
	const op = "get config"
	req, err := c.newRequest(ctx, op, http.MethodGet, adminPrefix+"/config", nil, "")
	if err != nil {
		return model.AdminConfig{}, err
	}
	var cfg model.AdminConfig
	if err := c.do(op, req, &cfg); err != nil {
		return model.AdminConfig{}, err
	}
	return cfg, nil
}

// SaveConfig pushes the full configuration.
func (c *Client) SaveConfig(ctx context.Context, cfg model.AdminConfig) (*ConfigUpdateResponse, error) {
	const op = "save config"
	body, err := jsonBody(op, cfg)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, op, http.MethodPost, adminPrefix+"/config", body, "application/json")
	if err != nil {
		return nil, err
	}
	var resp ConfigUpdateResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// KNOWLEDGE FILES
// =============================================================================

// ListFiles returns the knowledge-base file set.
func (c *Client) ListFiles(ctx context.Context) ([]model.KnowledgeFile, error) {
	const op = "list files"
	req, err := c.newRequest(ctx, op, http.MethodGet, adminPrefix+"/files", nil, "")
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(op, req, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, &ClientError{Type: ErrTypeDecode, Op: op, Message: "failed to decode file list", Cause: err}
		}
		return model.FileNames(names), nil
	}
	var resp filesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Op: op, Message: "failed to decode file list", Cause: err}
	}
	return model.FileNames(resp.Files), nil
}

// UploadFile sends content as multipart field "file" named name. Staging a
// file does not update the retrieval index; call RebuildIndex for that.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader) (*MessageResponse, error) {
	const op = "upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to create form file", Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to read upload content", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to finish form", Cause: err}
	}

	req, err := c.newRequest(ctx, op, http.MethodPost, adminPrefix+"/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var resp MessageResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadPath reads a local file and uploads it under its base name.
func (c *Client) UploadPath(ctx context.Context, path string) (*MessageResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Op: "upload", Message: "failed to open file", Cause: err}
	}
	defer f.Close()
	return c.UploadFile(ctx, filepath.Base(path), f)
}

// DeleteFile removes a file from the staging set.
func (c *Client) DeleteFile(ctx context.Context, name string) (*MessageResponse, error) {
	const op = "delete"
	req, err := c.newRequest(ctx, op, http.MethodDelete, adminPrefix+"/files/"+url.PathEscape(name), nil, "")
	if err != nil {
		return nil, err
	}
	var resp MessageResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RebuildIndex asks the backend to re-index the staged files. A 2xx reply
// may still report status "warning" or "error" in its body.
func (c *Client) RebuildIndex(ctx context.Context) (*RebuildResponse, error) {
	const op = "rebuild"
	req, err := c.newRequest(ctx, op, http.MethodPost, adminPrefix+"/rebuild", nil, "")
	if err != nil {
		return nil, err
	}
	var resp RebuildResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// ListLogs fetches the most recent size log entries, newest first.
func (c *Client) ListLogs(ctx context.Context, size int) (*LogPage, error) {
	const op = "list logs"
	if size < 1 || size > 100 {
		return nil, &ClientError{Type: ErrTypeRequest, Op: op, Message: fmt.Sprintf("size %d out of range 1..100", size)}
	}
	q := url.Values{}
	q.Set("size", strconv.Itoa(size))
	req, err := c.newRequest(ctx, op, http.MethodGet, adminPrefix+"/logs?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	var wire logPageWire
	if err := c.do(op, req, &wire); err != nil {
		return nil, err
	}
	page := wire.toLogPage()
	return &page, nil
}
