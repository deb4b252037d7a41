// minbao - terminal client for the 敏宝守护者 pediatric allergy advisor.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/cli"
	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/ui/admin"
	"github.com/minbao/minbao-tui/internal/ui/app"
	"github.com/minbao/minbao-tui/internal/ui/chat"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version, cli.GitCommit, cli.BuildDate = Version, GitCommit, BuildDate

	cmd, args := cli.Parse()
	cli.SetupLogging(args.Verbose)

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdUnknown:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args.Raw[0])
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	case cli.CmdTUI:
		exitOnError(runTUI(args), args.JSON)
		return
	}

	env, err := cli.NewEnv(args)
	if err != nil {
		// config must still run against a broken file so it can be rewritten.
		if cmd != cli.CmdConfig {
			exitOnError(err, args.JSON)
		}
		env = cli.NewEnvFromConfig(args, config.Default())
	}

	switch cmd {
	case cli.CmdChat:
		err = cli.HandleChat(env)
	case cli.CmdAsk:
		err = cli.HandleAsk(env)
	case cli.CmdAdmin:
		err = cli.HandleAdmin(env)
	case cli.CmdDoctor:
		err = cli.HandleDoctor(env)
	case cli.CmdConfig:
		err = cli.HandleConfig(env)
	}
	exitOnError(err, args.JSON)
}

func exitOnError(err error, jsonMode bool) {
	if err == nil {
		return
	}
	cli.DisplayError(os.Stderr, err, jsonMode)
	os.Exit(cli.GetExitCode(err))
}

// runTUI starts the full-screen client.
func runTUI(args cli.Args) error {
	if !cli.IsTTY() || !cli.IsStdoutTTY() {
		return &cli.TTYRequiredError{Operation: "tui"}
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}
	cat := i18n.For(cfg.UI.Language)

	// The TUI owns the terminal, so the standard logger goes to a file.
	if path, err := cfg.LogPath(); err == nil {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err == nil {
			if f, err := tea.LogToFile(path, "minbao"); err == nil {
				defer f.Close()
			}
		}
	}
	log.Printf("TUI | start backend=%s auth=%s", cfg.Backend.URL, cfg.Auth.Mode)

	client := api.NewClient(cfg.Backend.URL)
	router := app.NewRouter()

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		return &cli.ConfigError{Err: err}
	}
	gate := auth.NewGate(verifier, router.Session())
	gate.OnUnlock = client.SetToken

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := app.New(app.Deps{
		Ctx:     ctx,
		Theme:   styles.NewTheme(cfg.UI.Theme),
		Catalog: cat,
		Router:  router,
		Gate:    gate,
		Chatter: client,
		Backend: client,
		ChatOptions: chat.Options{
			Markdown: cfg.UI.Markdown,
		},
		AdminOptions: admin.Options{
			LogPageSize: cfg.Admin.LogPageSize,
			UploadDir:   cfg.Admin.UploadDir,
			AllowedExts: cfg.Admin.AllowedExts,
		},
		Origin: client.BaseURL(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	log.Printf("TUI | exit")
	return nil
}
