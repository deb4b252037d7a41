// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resource

import "time"

// State is the lifecycle state of a Remote.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Error
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Generation identifies one fetch. Zero is never issued.
type Generation uint64

// Remote holds a remotely fetched value of type T.
type Remote[T any] struct {
	state     State
	data      T
	hasData   bool
	err       error
	gen       Generation
	updatedAt time.Time
}

// Begin starts a fetch and returns its generation. Any fetch still in
// flight becomes stale.
func (r *Remote[T]) Begin() Generation {
	r.gen++
	r.state = Loading
	return r.gen
}

// Resolve records the outcome of the fetch identified by gen. It returns
// false, changing nothing, when gen is stale. On error the previous data is
// kept and the state becomes Error.
func (r *Remote[T]) Resolve(gen Generation, data T, err error) bool {
	if gen != r.gen || r.state != Loading {
		return false
	}
	if err != nil {
		r.state = Error
		r.err = err
		return true
	}
	r.state = Ready
	r.data = data
	r.hasData = true
	r.err = nil
	r.updatedAt = time.Now()
	return true
}

// Reset drops cached data and invalidates any fetch in flight.
func (r *Remote[T]) Reset() {
	var zero T
	r.gen++
	r.state = Idle
	r.data = zero
	r.hasData = false
	r.err = nil
	r.updatedAt = time.Time{}
}

// Current reports whether gen is the latest issued generation.
func (r *Remote[T]) Current(gen Generation) bool {
	return gen == r.gen
}

// State returns the lifecycle state.
func (r *Remote[T]) State() State { return r.state }

// Data returns the last successfully loaded value (zero if none).
func (r *Remote[T]) Data() T { return r.data }

// HasData reports whether any fetch has succeeded since the last Reset.
func (r *Remote[T]) HasData() bool { return r.hasData }

// Err returns the error of the last failed fetch while in the Error state.
func (r *Remote[T]) Err() error {
	if r.state != Error {
		return nil
	}
	return r.err
}

// Loading reports whether a fetch is in flight.
func (r *Remote[T]) Loading() bool { return r.state == Loading }

// UpdatedAt returns when data was last loaded.
func (r *Remote[T]) UpdatedAt() time.Time { return r.updatedAt }
