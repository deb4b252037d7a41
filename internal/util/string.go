// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// Truncate clips s so that it occupies at most maxWidth terminal columns.
// Wide characters (CJK, most emoji) count as two columns. When s is clipped
// the last column is replaced by an ellipsis.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// PadRight pads s with spaces to exactly width columns, truncating first if
// it is too long.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillRight(s, width)
}

// Width returns the display width of s in terminal columns.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// FirstLine returns the first non-empty line of s, trimmed. If s spans more
// than one line an ellipsis is appended so the reader knows there is more.
func FirstLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	first := strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		return first + " " + ellipsis
	}
	return first
}
