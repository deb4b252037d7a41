// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resource tracks the lifecycle of one remotely fetched value.
//
// A Remote moves between Idle, Loading, Ready and Error. Each fetch is
// stamped with a generation number by Begin; Resolve ignores results whose
// generation is no longer current, so a slow stale response can never
// overwrite a newer one. A failed fetch keeps the previously loaded data.
//
// Remote is a plain value owned by a single event loop (a Bubble Tea
// model); it performs no locking.
//
// # Usage
//
//	gen := files.Begin()
//	return func() tea.Msg {
//	    list, err := client.ListFiles(ctx)
//	    return filesLoadedMsg{gen: gen, files: list, err: err}
//	}
//
//	// in Update:
//	files.Resolve(msg.gen, msg.files, msg.err)
package resource
