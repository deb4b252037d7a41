// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app assembles the minbao TUI: the view router and the top-level
Bubble Tea model that hosts the chat, login and admin views.

# Router

Router is an explicit state machine over three views:

	NavChat      any   -> chat
	NavAdmin     any   -> login  (session locked)
	NavAdmin     any   -> admin  (session unlocked)
	Unlocked     login -> admin
	CancelLogin  login -> chat

Any other event leaves the view unchanged. The router owns the process-wide
admin session; once unlocked it stays unlocked until exit.

# Model

Model translates keys into router events and runs the enter/leave hooks a
transition requires: entering admin starts a fresh fetch scope and leaving
it cancels that scope. The chat view is never reset, and a chat reply that
arrives while another view is showing is still delivered to it.
*/
package app
