// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"sync"
)

// =============================================================================
// VIEW SCOPE (THREAD-SAFE)
// =============================================================================

// scope is the cancellation boundary of one admin view visit. It must be
// held by pointer so Bubble Tea model copies share it.
type scope struct {
	mu     sync.Mutex
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func newScope() *scope {
	return &scope{}
}

// open cancels any previous visit and starts a new one under parent.
func (s *scope) open(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.id++
	s.ctx, s.cancel = context.WithCancel(parent)
	return s.ctx, s.id
}

// close cancels the current visit. Safe to call when none is open.
func (s *scope) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// visit returns the current visit's context and id.
func (s *scope) visit() (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background(), s.id
	}
	return s.ctx, s.id
}

// current reports whether id names the open visit.
func (s *scope) current(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil && id == s.id
}
