// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the user-facing strings of the minbao client.
//
// Simplified Chinese is the primary language; English is provided for
// operators. Lookup goes through golang.org/x/text/language so regional and
// script variants (zh-CN, zh-Hans-CN, en-GB) resolve to the nearest catalog.
//
// # Usage
//
//	cat := i18n.For(cfg.UI.Language)
//	conv := model.NewConversation(cat.Greeting)
package i18n
