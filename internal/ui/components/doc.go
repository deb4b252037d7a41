// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the minbao TUI.
//
// # Key Types
//
//   - Dialog: blocking modal for notices, errors and yes/no confirmations
//   - Header: brand line with navigation tabs
//   - StatusBar: transient notice plus key help
package components
