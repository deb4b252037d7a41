// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"math"
	"sort"
	"time"
)

// =============================================================================
// ADMIN CONFIG
// =============================================================================

// ModelCatalog is the fixed list of backend models an operator can select.
var ModelCatalog = []string{
	"gpt-3.5-turbo",
	"gpt-4o-mini",
	"gpt-4.1-mini",
	"gpt-4o",
}

// Temperature bounds accepted by the backend.
const (
	MinTemperature  = 0.0
	MaxTemperature  = 2.0
	TemperatureStep = 0.1
)

// AdminConfig is the backend's model configuration.
type AdminConfig struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// InCatalog reports whether the configured model is one of ModelCatalog.
// The server is authoritative, so an unknown model is kept and shown as is.
func (c AdminConfig) InCatalog() bool {
	for _, m := range ModelCatalog {
		if m == c.Model {
			return true
		}
	}
	return false
}

// CycleModel returns a copy with the model moved dir steps through the
// catalog, wrapping at either end. A model outside the catalog moves to the
// first (dir > 0) or last (dir < 0) entry.
func (c AdminConfig) CycleModel(dir int) AdminConfig {
	n := len(ModelCatalog)
	if n == 0 || dir == 0 {
		return c
	}
	idx := -1
	for i, m := range ModelCatalog {
		if m == c.Model {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+dir)%n + n) % n
	}
	c.Model = ModelCatalog[idx]
	return c
}

// StepTemperature returns a copy with the temperature moved by delta,
// rounded to one decimal and clamped to the accepted range.
func (c AdminConfig) StepTemperature(delta float64) AdminConfig {
	c.Temperature = ClampTemperature(c.Temperature + delta)
	return c
}

// ClampTemperature rounds t to one decimal and clamps it to
// [MinTemperature, MaxTemperature].
func ClampTemperature(t float64) float64 {
	t = math.Round(t*10) / 10
	if t < MinTemperature {
		return MinTemperature
	}
	if t > MaxTemperature {
		return MaxTemperature
	}
	return t
}

// =============================================================================
// KNOWLEDGE FILES
// =============================================================================

// KnowledgeFile is a document in the knowledge-base staging set. Files are
// identified by name only.
type KnowledgeFile struct {
	Name string `json:"name"`
}

// FileNames builds a sorted, de-duplicated file set from raw names.
func FileNames(names []string) []KnowledgeFile {
	seen := make(map[string]bool, len(names))
	files := make([]KnowledgeFile, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		files = append(files, KnowledgeFile{Name: n})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}

// ContainsFile reports whether name is in files.
func ContainsFile(files []KnowledgeFile, name string) bool {
	for _, f := range files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// LogEntry is one recorded question/answer exchange. SessionID is empty when
// the backend did not record one.
type LogEntry struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id,omitempty"`
	UserQuestion string    `json:"user_question"`
	AIAnswer     string    `json:"ai_answer"`
	CreatedAt    time.Time `json:"created_at"`
}
