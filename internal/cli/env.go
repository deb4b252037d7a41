// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Shared setup for line-mode commands.

package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/i18n"
)

// Env is everything a command needs. Tests build one directly.
type Env struct {
	Args    Args
	Config  *config.Config
	Catalog *i18n.Catalog
	Client  *api.Client

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Interactive reports whether In is a terminal that can be prompted.
	Interactive bool
	// Markdown renders answers through glamour.
	Markdown bool
}

// LoadConfig loads the configuration selected by args and applies the
// global flag overrides. A broken default config file is reported on stderr
// and replaced by defaults; a broken --config file is an error.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
	}

	if args.Backend != "" {
		cfg.Backend.URL = strings.TrimRight(args.Backend, "/")
	}
	if args.Lang != "" {
		cfg.UI.Language = args.Lang
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// NewEnv loads the configuration and connects the standard streams.
func NewEnv(args Args) (*Env, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	return NewEnvFromConfig(args, cfg), nil
}

// NewEnvFromConfig connects the standard streams for an already loaded cfg.
func NewEnvFromConfig(args Args, cfg *config.Config) *Env {
	return &Env{
		Args:        args,
		Config:      cfg,
		Catalog:     i18n.For(cfg.UI.Language),
		Client:      api.NewClient(cfg.Backend.URL),
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: IsTTY(),
		Markdown:    cfg.UI.Markdown && IsStdoutTTY(),
	}
}

// SetupLogging sends the standard logger to stderr with --verbose and
// discards it otherwise.
func SetupLogging(verbose bool) {
	log.SetFlags(log.LstdFlags)
	if verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}
