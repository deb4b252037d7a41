// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/minbao/minbao-tui/internal/auth"
)

// View is a top-level screen.
type View int

const (
	ViewChat View = iota
	ViewLogin
	ViewAdmin
)

func (v View) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewLogin:
		return "login"
	case ViewAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Event drives the router.
type Event int

const (
	EventNavChat Event = iota
	EventNavAdmin
	EventUnlocked
	EventCancelLogin
)

func (e Event) String() string {
	switch e {
	case EventNavChat:
		return "nav_chat"
	case EventNavAdmin:
		return "nav_admin"
	case EventUnlocked:
		return "unlocked"
	case EventCancelLogin:
		return "cancel_login"
	default:
		return "unknown"
	}
}

// Transition is the result of firing an event.
type Transition struct {
	From    View
	To      View
	Event   Event
	Changed bool
}

// =============================================================================
// ROUTER
// =============================================================================

// Router is the view state machine. It starts in ViewChat with a locked
// session. It is not safe for concurrent use.
type Router struct {
	view    View
	session *auth.Session
}

// NewRouter creates a router and the admin session it owns.
func NewRouter() *Router {
	return &Router{view: ViewChat, session: auth.NewSession()}
}

// View returns the current view.
func (r *Router) View() View {
	return r.view
}

// Session returns the admin session.
func (r *Router) Session() *auth.Session {
	return r.session
}

// Fire applies ev and reports the transition.
func (r *Router) Fire(ev Event) Transition {
	from := r.view
	to := r.next(ev)
	r.view = to
	return Transition{From: from, To: to, Event: ev, Changed: from != to}
}

func (r *Router) next(ev Event) View {
	switch ev {
	case EventNavChat:
		return ViewChat
	case EventNavAdmin:
		if r.session.Unlocked() {
			return ViewAdmin
		}
		return ViewLogin
	case EventUnlocked:
		if r.view == ViewLogin && r.session.Unlocked() {
			return ViewAdmin
		}
	case EventCancelLogin:
		if r.view == ViewLogin {
			return ViewChat
		}
	}
	return r.view
}
