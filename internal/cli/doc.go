// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// minbao.
//
// Running minbao with no command starts the TUI. The other commands talk to
// the same backend without taking over the terminal, which makes them
// usable from scripts.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	env, err := cli.NewEnv(args)
//	if err != nil {
//	    return err
//	}
//	switch cmd {
//	case cli.CmdChat:
//	    return cli.HandleChat(env)
//	case cli.CmdAdmin:
//	    return cli.HandleAdmin(env)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - tui: full-screen client (default)
//   - chat: interactive line REPL
//   - ask: single question
//   - admin: config, files, upload, delete, rebuild, logs
//   - doctor: configuration and backend diagnostics
//   - config: show, init, path
//
// Admin commands and doctor support --json.
package cli
