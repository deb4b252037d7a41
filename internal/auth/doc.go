// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth gates access to the admin console.
//
// A Gate checks a passphrase through a Verifier and, on success, unlocks the
// process-wide Session. The session stays unlocked until the process exits;
// there is no logout, lockout or attempt counting.
//
// # Key Types
//
//   - Verifier: checks a passphrase (StaticVerifier, ServiceVerifier)
//   - Session: the unlocked flag plus an optional bearer token
//   - Gate: couples a Verifier with a Session and tracks the last failure
//
// # Usage
//
//	verifier, err := auth.NewVerifier(cfg.Auth)
//	gate := auth.NewGate(verifier, auth.NewSession())
//	res, err := gate.Submit(ctx, input)
//	if res.Unlocked {
//	    // route to admin
//	}
package auth
