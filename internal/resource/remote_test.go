// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemote_Lifecycle(t *testing.T) {
	var r Remote[[]string]

	if r.State() != Idle {
		t.Fatalf("initial State() = %s, want idle", r.State())
	}

	gen := r.Begin()
	assert.Equal(t, Loading, r.State())
	assert.True(t, r.Loading())

	assert.True(t, r.Resolve(gen, []string{"a.txt"}, nil))
	assert.Equal(t, Ready, r.State())
	assert.Equal(t, []string{"a.txt"}, r.Data())
	assert.True(t, r.HasData())
	assert.NoError(t, r.Err())
	assert.False(t, r.UpdatedAt().IsZero())
}

func TestRemote_ErrorKeepsPriorData(t *testing.T) {
	var r Remote[int]
	r.Resolve(r.Begin(), 42, nil)

	boom := errors.New("boom")
	assert.True(t, r.Resolve(r.Begin(), 0, boom))

	assert.Equal(t, Error, r.State())
	assert.Equal(t, 42, r.Data(), "failed fetch must not clear data")
	assert.ErrorIs(t, r.Err(), boom)
}

func TestRemote_StaleResultIgnored(t *testing.T) {
	var r Remote[string]

	first := r.Begin()
	second := r.Begin()

	if r.Resolve(first, "stale", nil) {
		t.Error("Resolve(first) accepted a stale generation")
	}
	assert.Equal(t, Loading, r.State())

	assert.True(t, r.Resolve(second, "fresh", nil))
	assert.Equal(t, "fresh", r.Data())

	if r.Resolve(second, "duplicate", nil) {
		t.Error("Resolve accepted a second result for the same generation")
	}
	assert.Equal(t, "fresh", r.Data())
}

func TestRemote_ResetInvalidatesInFlight(t *testing.T) {
	var r Remote[string]
	r.Resolve(r.Begin(), "cached", nil)

	gen := r.Begin()
	r.Reset()

	assert.Equal(t, Idle, r.State())
	assert.False(t, r.HasData())
	assert.Equal(t, "", r.Data())
	assert.False(t, r.Current(gen))

	if r.Resolve(gen, "late", nil) {
		t.Error("Resolve accepted a result issued before Reset")
	}
	assert.Equal(t, "", r.Data())
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Loading: "loading", Ready: "ready", Error: "error", State(9): "unknown"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
