// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver is a local stand-in for the advisory backend.
//
// It serves the same routes with the same status codes and messages, keeps
// staged files in memory and stores the chat log and the chunk index in
// SQLite. Answers are assembled from the chunks that share the most
// character bigrams with the question, so no language model is needed.
//
// Staged files only reach the index on rebuild:
//
//	upload milk.txt  -> chat still answers from the previous index
//	rebuild          -> milk.txt is split into 400-rune chunks
//	delete milk.txt  -> indexed chunks stay until the next rebuild
package devserver
