// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the consultation view of the minbao TUI.

# Key Components

## Session (session.go)

Session holds the conversation and the single-flight sending flag. It has
no Bubble Tea dependency so the line-mode REPL in internal/cli shares the
exact same send rules:
  - Blank input or a send while another is outstanding is a silent no-op
  - Each accepted send appends the user message, then exactly one
    assistant message
  - Transport failures and backend failures map to two distinct replies

## Model (model.go, update.go, view.go)

Model wraps a Session with a textarea input, a scrolling viewport and a
thinking spinner. The backend call runs as a tea.Cmd and reports back with
a ResponseMsg, so conversation state is only mutated on the event loop.

The model lives for the whole process. Navigating to the admin view and
back keeps the conversation, and a request in flight is not cancelled by
navigation; it is bound to the context passed to New.

# Usage

	m := chat.New(ctx, theme, catalog, client, chat.Options{Markdown: true})
	cmd := m.Init()
*/
package chat
