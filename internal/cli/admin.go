// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// admin.go - Line-mode admin commands.
//
// Command: admin
// Short:   Manage the model configuration and the knowledge base
//
// Examples:
//   minbao admin config
//   minbao admin set --model gpt-4o --temperature 0.3
//   minbao admin upload ~/docs/牛奶过敏指南.txt
//   minbao admin delete 牛奶过敏指南.txt --yes
//   minbao admin rebuild
//   minbao admin logs --size 50 --json
//
// Every subcommand first checks the admin passphrase.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/staging"
	"github.com/minbao/minbao-tui/internal/util"
)

// PassphraseEnv supplies the passphrase to admin commands non-interactively.
const PassphraseEnv = "MINBAO_PASSPHRASE"

// adminBools are the admin flags that never take a value.
var adminBools = []string{"yes", "y", "json"}

// HandleAdmin dispatches admin subcommands.
func HandleAdmin(env *Env) error {
	p := NewArgParser(env.Args.Raw, adminBools...)
	sub := strings.ToLower(p.Subcommand())

	var run func(context.Context, *Env, *ArgParser) error
	switch sub {
	case "config", "show":
		run = adminShowConfig
	case "set":
		run = adminSetConfig
	case "files", "ls":
		run = adminListFiles
	case "upload":
		run = adminUpload
	case "delete", "rm":
		run = adminDelete
	case "rebuild":
		run = adminRebuild
	case "logs":
		run = adminLogs
	case "":
		return ErrMissingArgument("subcommand", "minbao admin <config|set|files|upload|delete|rebuild|logs>")
	default:
		return &ValidationError{Field: "subcommand", Value: sub, Reason: "unknown admin subcommand"}
	}

	ctx := context.Background()
	if err := unlockAdmin(ctx, env, p); err != nil {
		return err
	}
	return run(ctx, env, p)
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// unlockAdmin checks the passphrase from --passphrase, MINBAO_PASSPHRASE or
// a hidden prompt. A service-issued token is attached to the client.
func unlockAdmin(ctx context.Context, env *Env, p *ArgParser) error {
	passphrase := p.Flag("passphrase")
	if passphrase == "" {
		passphrase = os.Getenv(PassphraseEnv)
	}
	if passphrase == "" {
		var err error
		passphrase, err = ReadPassphrase(env.Catalog.LoginPrompt + ": ")
		if err != nil {
			return err
		}
	}

	verifier, err := auth.NewVerifier(env.Config.Auth)
	if err != nil {
		return &ConfigError{Err: err}
	}
	gate := auth.NewGate(verifier, auth.NewSession())
	gate.OnUnlock = env.Client.SetToken

	out, err := gate.Submit(ctx, passphrase)
	if err != nil {
		return WrapError(err, "verify passphrase")
	}
	if !out.Unlocked {
		return ErrPassphraseRejected
	}
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

func adminShowConfig(ctx context.Context, env *Env, _ *ArgParser) error {
	return OutputJSON(env.Out, env.Args.JSON, "admin config", func() (any, error) {
		cfg, err := env.Client.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		if !env.Args.JSON {
			printAdminConfig(env, cfg)
		}
		return cfg, nil
	})
}

func printAdminConfig(env *Env, cfg model.AdminConfig) {
	modelValue := cfg.Model
	if !cfg.InCatalog() {
		modelValue += " " + WarningStyle.Render(env.Catalog.ModelNotInList)
	}
	fmt.Fprintln(env.Out, RenderLabel(env.Catalog.FieldModel)+ValueStyle.Render(modelValue))
	fmt.Fprintln(env.Out, RenderLabel(env.Catalog.FieldTemperature)+ValueStyle.Render(strconv.FormatFloat(cfg.Temperature, 'f', 1, 64)))
}

func adminSetConfig(ctx context.Context, env *Env, p *ArgParser) error {
	newModel := p.Flag("model")
	tempRaw := p.Flag("temperature")
	if newModel == "" && tempRaw == "" {
		return ErrMissingArgument("--model or --temperature", "minbao admin set --temperature 0.3")
	}

	var temp float64
	if tempRaw != "" {
		var err error
		temp, err = strconv.ParseFloat(tempRaw, 64)
		if err != nil || temp < model.MinTemperature || temp > model.MaxTemperature {
			return &ValidationError{Field: "temperature", Value: tempRaw, Reason: "must be a number in [0, 2]"}
		}
	}

	return OutputJSON(env.Out, env.Args.JSON, "admin set", func() (any, error) {
		cfg, err := env.Client.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		if newModel != "" {
			cfg.Model = newModel
		}
		if tempRaw != "" {
			cfg.Temperature = model.ClampTemperature(temp)
		}

		resp, err := env.Client.SaveConfig(ctx, cfg)
		if err != nil {
			log.Printf("ADMIN | op=save err=%v", err)
			return nil, &CommandError{Command: "admin", Action: "set", Reason: env.Catalog.SaveFailed, Err: err}
		}
		if !env.Args.JSON {
			fmt.Fprintln(env.Out, SuccessStyle.Render(resp.Message))
			printAdminConfig(env, resp.Config)
		}
		return resp, nil
	})
}

// =============================================================================
// KNOWLEDGE BASE
// =============================================================================

// fileList is the --json payload of admin files.
type fileList struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

func adminListFiles(ctx context.Context, env *Env, _ *ArgParser) error {
	return OutputJSON(env.Out, env.Args.JSON, "admin files", func() (any, error) {
		files, err := env.Client.ListFiles(ctx)
		if err != nil {
			return nil, err
		}
		out := fileList{Files: make([]string, 0, len(files)), Count: len(files)}
		for _, f := range files {
			out.Files = append(out.Files, f.Name)
		}
		if !env.Args.JSON {
			if len(files) == 0 {
				fmt.Fprintln(env.Out, DimStyle.Render(env.Catalog.Empty))
			}
			for _, name := range out.Files {
				fmt.Fprintln(env.Out, "  "+name)
			}
		}
		return out, nil
	})
}

// uploadResult is one entry of the --json payload of admin upload.
type uploadResult struct {
	File    string `json:"file"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func adminUpload(ctx context.Context, env *Env, p *ArgParser) error {
	paths := p.PositionalFrom(1)
	if len(paths) == 0 {
		return ErrMissingArgument("file", "minbao admin upload guide.txt")
	}
	for _, path := range paths {
		if !staging.Allowed(path, env.Config.Admin.AllowedExts) {
			return &ValidationError{
				Field:  "file",
				Value:  path,
				Reason: "extension must be one of " + strings.Join(env.Config.Admin.AllowedExts, ", "),
			}
		}
	}

	return OutputJSON(env.Out, env.Args.JSON, "admin upload", func() (any, error) {
		results := make([]uploadResult, 0, len(paths))
		var firstErr error
		for _, path := range paths {
			path = staging.ExpandPath(path)
			resp, err := env.Client.UploadPath(ctx, path)
			if err != nil {
				log.Printf("ADMIN | op=upload target=%s err=%v", path, err)
				results = append(results, uploadResult{File: path, Error: api.Detail(err)})
				if !env.Args.JSON {
					fmt.Fprintf(env.Err, "%s %s: %s\n", ErrorStyle.Render(env.Catalog.UploadFailed), path, api.Detail(err))
				}
				if firstErr == nil {
					firstErr = &CommandError{Command: "admin", Action: "upload", Reason: path, Err: err}
				}
				continue
			}
			results = append(results, uploadResult{File: path, Message: resp.Message})
			if !env.Args.JSON {
				fmt.Fprintln(env.Out, SuccessStyle.Render(resp.Message))
			}
		}
		if !env.Args.JSON && len(results) > 0 && firstErr == nil {
			fmt.Fprintln(env.Out, WarningStyle.Render(env.Catalog.RebuildRequired))
		}
		if firstErr != nil {
			return nil, firstErr
		}
		return results, nil
	})
}

func adminDelete(ctx context.Context, env *Env, p *ArgParser) error {
	name := p.Positional(1)
	if name == "" {
		return ErrMissingArgument("name", "minbao admin delete guide.txt --yes")
	}

	ok, err := RequireConfirmation(fmt.Sprintf("%s (%s)", env.Catalog.DeleteConfirm, name), ConfirmationOptions{
		Yes:         p.BoolFlag("yes") || p.BoolFlag("y"),
		JSONMode:    env.Args.JSON,
		Interactive: env.Interactive,
		In:          env.In,
		Out:         env.Err,
	})
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(env.Err, DimStyle.Render("Cancelled."))
		return nil
	}

	return OutputJSON(env.Out, env.Args.JSON, "admin delete", func() (any, error) {
		resp, err := env.Client.DeleteFile(ctx, name)
		if err != nil {
			log.Printf("ADMIN | op=delete target=%s err=%v", name, err)
			return nil, &CommandError{Command: "admin", Action: "delete", Reason: env.Catalog.DeleteFailed, Err: err}
		}
		if !env.Args.JSON {
			fmt.Fprintln(env.Out, SuccessStyle.Render(resp.Message))
		}
		return resp, nil
	})
}

func adminRebuild(ctx context.Context, env *Env, _ *ArgParser) error {
	if !env.Args.JSON {
		fmt.Fprintln(env.Err, DimStyle.Render(env.Catalog.RebuildRunning))
	}
	return OutputJSON(env.Out, env.Args.JSON, "admin rebuild", func() (any, error) {
		resp, err := env.Client.RebuildIndex(ctx)
		if err != nil {
			log.Printf("ADMIN | op=rebuild err=%v", err)
			return nil, &CommandError{Command: "admin", Action: "rebuild", Reason: env.Catalog.RebuildFailed, Err: err}
		}
		if resp.Status == api.RebuildError {
			return nil, &CommandError{Command: "admin", Action: "rebuild", Reason: resp.Message}
		}
		if !env.Args.JSON {
			style := SuccessStyle
			if !resp.OK() {
				style = WarningStyle
			}
			fmt.Fprintln(env.Out, RenderStatus(resp.Status)+" "+style.Render(resp.Message))
		}
		return resp, nil
	})
}

// =============================================================================
// LOGS
// =============================================================================

func adminLogs(ctx context.Context, env *Env, p *ArgParser) error {
	size := env.Config.Admin.LogPageSize
	if p.HasFlag("size") {
		n, err := p.FlagInt("size")
		if err != nil || n < 1 || n > 100 {
			return &ValidationError{Field: "size", Value: p.Flag("size"), Reason: "must be between 1 and 100"}
		}
		size = n
	}

	return OutputJSON(env.Out, env.Args.JSON, "admin logs", func() (any, error) {
		page, err := env.Client.ListLogs(ctx, size)
		if err != nil {
			return nil, err
		}
		if !env.Args.JSON {
			printLogs(env, page)
		}
		return page, nil
	})
}

func printLogs(env *Env, page *api.LogPage) {
	if len(page.Entries) == 0 {
		fmt.Fprintln(env.Out, DimStyle.Render(env.Catalog.Empty))
		return
	}
	width := GetTerminalWidth()
	text := max(width-4, 20)
	for _, e := range page.Entries {
		header := fmt.Sprintf("#%d  %s", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"))
		if e.SessionID != "" {
			header += "  " + e.SessionID
		}
		fmt.Fprintln(env.Out, SectionStyle.Render(header))
		fmt.Fprintln(env.Out, "  "+RenderLabel(env.Catalog.ColQuestion)+util.Truncate(util.FirstLine(e.UserQuestion), text-14))
		fmt.Fprintln(env.Out, "  "+RenderLabel(env.Catalog.ColAnswer)+util.Truncate(util.FirstLine(e.AIAnswer), text-14))
	}
	fmt.Fprintln(env.Out, DimStyle.Render(fmt.Sprintf("%d / %d", len(page.Entries), page.Total)))
}
