// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Client configuration command.
//
// Command: config
// Short:   Show or initialize the client configuration
//
// Examples:
//   minbao config show          Show the effective config (secrets masked)
//   minbao config init          Write a default ~/.minbao/config.toml
//   minbao config init --force  Overwrite an existing file
//   minbao config path          Print the config file path
//   minbao config totp          Generate a secret for auth mode "totp"
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/config"
)

// configPaths is the --json payload of config path.
type configPaths struct {
	Config string `json:"config"`
	Log    string `json:"log"`
	Exists bool   `json:"exists"`
}

// HandleConfig dispatches config subcommands.
func HandleConfig(env *Env) error {
	p := NewArgParser(env.Args.Raw, "force", "json")
	switch strings.ToLower(p.Subcommand()) {
	case "", "show":
		return configShow(env)
	case "init":
		return configInit(env, p.BoolFlag("force"))
	case "path":
		return configPath(env)
	case "totp":
		return configTOTP(env, p.FlagOrDefault("account", "admin"))
	default:
		return &ValidationError{Field: "subcommand", Value: p.Subcommand(), Reason: "unknown config subcommand", Example: "minbao config show"}
	}
}

func configFile(env *Env) (string, error) {
	if env.Args.ConfigPath != "" {
		return env.Args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func configShow(env *Env) error {
	return OutputJSON(env.Out, env.Args.JSON, "config show", func() (any, error) {
		safe := *env.Config
		if safe.Auth.Passphrase != "" {
			safe.Auth.Passphrase = "********"
		}
		if safe.Auth.PassphraseHash != "" {
			safe.Auth.PassphraseHash = "********"
		}
		if safe.Auth.TOTPSecret != "" {
			safe.Auth.TOTPSecret = "********"
		}
		if !env.Args.JSON {
			fmt.Fprint(env.Out, env.Config.String())
		}
		return safe, nil
	})
}

func configInit(env *Env, force bool) error {
	path, err := configFile(env)
	if err != nil {
		return &ConfigError{Err: err}
	}
	if _, err := os.Stat(path); err == nil && !force {
		return &ValidationError{Field: "config", Value: path, Reason: "file exists", Example: "minbao config init --force"}
	}

	cfg := config.Default()
	if env.Args.Backend != "" {
		cfg.Backend.URL = strings.TrimRight(env.Args.Backend, "/")
	}
	if env.Args.Lang != "" {
		cfg.UI.Language = env.Args.Lang
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return &ConfigError{Err: err}
	}

	return OutputJSON(env.Out, env.Args.JSON, "config init", func() (any, error) {
		if !env.Args.JSON {
			fmt.Fprintln(env.Out, SuccessStyle.Render("Wrote "+path))
		}
		return configPaths{Config: path, Exists: true}, nil
	})
}

func configPath(env *Env) error {
	return OutputJSON(env.Out, env.Args.JSON, "config path", func() (any, error) {
		path, err := configFile(env)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		logPath, _ := env.Config.LogPath()
		_, statErr := os.Stat(path)
		out := configPaths{Config: path, Log: logPath, Exists: statErr == nil}
		if !env.Args.JSON {
			fmt.Fprintln(env.Out, out.Config)
		}
		return out, nil
	})
}

// totpEnrollment is the --json payload of config totp.
type totpEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// configTOTP prints a fresh secret. The config file is not modified.
func configTOTP(env *Env, account string) error {
	return OutputJSON(env.Out, env.Args.JSON, "config totp", func() (any, error) {
		secret, url, err := auth.GenerateTOTPSecret(account)
		if err != nil {
			return nil, WrapError(err, "generate totp secret")
		}
		if !env.Args.JSON {
			fmt.Fprintln(env.Out, RenderLabel("Secret")+ValueStyle.Render(secret))
			fmt.Fprintln(env.Out, RenderLabel("URL")+ValueStyle.Render(url))
			fmt.Fprintln(env.Out)
			fmt.Fprintln(env.Out, DimStyle.Render("Add to the config file:"))
			fmt.Fprintln(env.Out, "  [auth]")
			fmt.Fprintln(env.Out, `  mode = "totp"`)
			fmt.Fprintf(env.Out, "  totp_secret = %q\n", secret)
		}
		return totpEnrollment{Secret: secret, URL: url}, nil
	})
}
