// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the minbao client.
//
// # Key Functions
//
// Display width (CJK aware, via go-runewidth):
//   - Truncate: clip a string to a column budget with an ellipsis
//   - PadRight: pad a string to an exact column width
//   - FirstLine: collapse multi-line text into a single display line
//
// File Operations:
//   - WriteFileAtomic: stream into a synced temp file, then rename
//
// # Usage
//
//	cell := util.Truncate(entry.UserQuestion, 30)
//	err := util.WriteFileAtomicBytes(path, data, 0600)
package util
