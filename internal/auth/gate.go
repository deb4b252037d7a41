// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"log"
	"sync"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the process-wide admin session. It starts locked and, once
// unlocked, stays unlocked for the lifetime of the process. It is never
// persisted.
type Session struct {
	mu       sync.RWMutex
	unlocked bool
	token    string
}

// NewSession creates a locked session.
func NewSession() *Session {
	return &Session{}
}

// Unlocked reports whether the admin gate has been passed.
func (s *Session) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unlocked
}

// Token returns the bearer token issued at unlock, if any.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) unlock(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = true
	if token != "" {
		s.token = token
	}
}

// =============================================================================
// GATE
// =============================================================================

// Outcome is what a submit produced.
type Outcome struct {
	Unlocked bool
}

// Gate checks passphrases and unlocks the session.
//
// Check may be called from any goroutine. Apply and Submit mutate the gate
// and must be called from the goroutine that owns it.
type Gate struct {
	verifier Verifier
	session  *Session
	failed   bool
	lastErr  error

	// OnUnlock is called with the issued token after a successful check.
	OnUnlock func(token string)
}

// NewGate creates a gate for session using verifier.
func NewGate(verifier Verifier, session *Session) *Gate {
	return &Gate{verifier: verifier, session: session}
}

// Session returns the session the gate unlocks.
func (g *Gate) Session() *Session {
	return g.session
}

// Check verifies passphrase without changing any state.
func (g *Gate) Check(ctx context.Context, passphrase string) (Result, error) {
	return g.verifier.Verify(ctx, passphrase)
}

// Apply records the outcome of a Check. A successful result unlocks the
// session and clears the failure flag; a mismatch or error sets it.
func (g *Gate) Apply(res Result, err error) Outcome {
	if err != nil {
		g.failed = true
		g.lastErr = err
		log.Printf("AUTH | result=error verifier=%s err=%v", g.verifier.Name(), err)
		return Outcome{}
	}
	if !res.OK {
		g.failed = true
		g.lastErr = nil
		log.Printf("AUTH | result=denied verifier=%s", g.verifier.Name())
		return Outcome{}
	}

	g.failed = false
	g.lastErr = nil
	g.session.unlock(res.Token)
	if g.OnUnlock != nil {
		g.OnUnlock(res.Token)
	}
	log.Printf("AUTH | result=granted verifier=%s token=%t", g.verifier.Name(), res.Token != "")
	return Outcome{Unlocked: true}
}

// Submit checks passphrase and applies the result.
func (g *Gate) Submit(ctx context.Context, passphrase string) (Outcome, error) {
	res, err := g.Check(ctx, passphrase)
	return g.Apply(res, err), err
}

// Failed reports whether the most recent submit was rejected.
func (g *Gate) Failed() bool {
	return g.failed
}

// LastError returns the error of the most recent submit when the check
// itself failed (as opposed to a wrong passphrase).
func (g *Gate) LastError() error {
	return g.lastErr
}
