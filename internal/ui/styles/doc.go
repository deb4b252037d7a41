// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the minbao TUI.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
// The terminal color profile is detected once through termenv.
//
// # Key Types
//
//   - Theme: every lipgloss.Style the views render with
//   - LayoutMode: narrow / medium / wide breakpoints
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	theme.SetSize(msg.Width, msg.Height)
//	out := theme.UserBubble.Render(text)
package styles
