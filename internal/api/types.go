// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minbao/minbao-tui/internal/model"
)

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the success body of POST /api/v1/chat.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// =============================================================================
// ADMIN
// =============================================================================

// ConfigUpdateResponse is the success body of POST /api/v1/admin/config.
type ConfigUpdateResponse struct {
	Message string            `json:"message"`
	Config  model.AdminConfig `json:"config"`
}

// MessageResponse is a generic {message} body (upload, delete).
type MessageResponse struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Rebuild statuses reported by the backend.
const (
	RebuildSuccess = "success"
	RebuildWarning = "warning"
	RebuildError   = "error"
)

// RebuildResponse is the body of POST /api/v1/admin/rebuild.
type RebuildResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the rebuild produced an index.
func (r RebuildResponse) OK() bool {
	return r.Status == RebuildSuccess
}

// filesResponse is the body of GET /api/v1/admin/files. The backend returns
// a bare JSON array instead when its data directory does not exist.
type filesResponse struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// LogPage is one page of the conversation log.
type LogPage struct {
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
	Entries []model.LogEntry `json:"logs"`
}

type logEntryWire struct {
	ID           int64   `json:"id"`
	SessionID    *string `json:"session_id"`
	UserQuestion string  `json:"user_question"`
	AIAnswer     string  `json:"ai_answer"`
	CreatedAt    string  `json:"created_at"`
}

type logPageWire struct {
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Logs  []logEntryWire `json:"logs"`
}

func (w logPageWire) toLogPage() LogPage {
	page := LogPage{
		Total:   w.Total,
		Page:    w.Page,
		Size:    w.Size,
		Entries: make([]model.LogEntry, 0, len(w.Logs)),
	}
	for _, l := range w.Logs {
		entry := model.LogEntry{
			ID:           l.ID,
			UserQuestion: l.UserQuestion,
			AIAnswer:     l.AIAnswer,
		}
		if l.SessionID != nil {
			entry.SessionID = *l.SessionID
		}
		// An unparseable timestamp leaves the zero time; the entry is still shown.
		entry.CreatedAt, _ = ParseTimestamp(l.CreatedAt)
		page.Entries = append(page.Entries, entry)
	}
	return page
}

// timestampLayouts covers RFC 3339 and the naive ISO format the backend's
// ORM emits (no zone, optional microseconds).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a backend timestamp. Naive timestamps are read in
// local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// =============================================================================
// HEALTH & AUTH
// =============================================================================

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// LoginRequest is sent to a credential service.
type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}

// LoginResponse carries a signed session token from a credential service.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// =============================================================================
// ERROR BODY
// =============================================================================

// errorBody is the backend error shape: {"detail": ...}. Detail is a string
// for application errors and a list of objects for request validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (b errorBody) text() string {
	if len(b.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(b.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return string(b.Detail)
}
