// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the admin passphrase form shown before the admin
// console. Verification runs asynchronously through an auth.Gate; the form
// reports success with UnlockedMsg and a cancel with CancelMsg, and leaves
// the navigation decision to the router.
package login
