// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package staging lists and watches the local directory operators drop
// knowledge-base documents into before uploading them.
//
// # Key Types
//
//   - Candidate: an uploadable file in the staging directory
//   - Watcher: fsnotify-based change notifier for the directory
//
// # Usage
//
//	files, err := staging.List(cfg.Admin.UploadDir, cfg.Admin.AllowedExts)
//
//	w, err := staging.NewWatcher(dir, 200*time.Millisecond)
//	defer w.Close()
//	for range w.Changes() {
//	    files, _ = staging.List(dir, exts)
//	}
package staging
