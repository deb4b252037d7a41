// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Top-level command dispatch for minbao.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdAdmin
	CmdDoctor
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdAsk:
		return "ask"
	case CmdAdmin:
		return "admin"
	case CmdDoctor:
		return "doctor"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Backend    string // --backend URL overrides backend.url
	ConfigPath string // --config PATH loads a specific file
	Lang       string // --lang TAG overrides ui.language
	JSON       bool
	Verbose    bool

	// Command-specific
	Subcommand string
	Query      string

	// Raw holds the arguments after the command name.
	Raw []string
}

const usageText = `minbao - 敏宝守护者 pediatric allergy advisor

Usage:
  minbao                          Start the TUI (default)
  minbao chat                     Interactive line chat
  minbao ask "question"           Ask a single question
  minbao admin <subcommand>       Administer the backend
  minbao doctor                   Check configuration and backend
  minbao config [show|init|path|totp]
                                  Configuration
  minbao version                  Show version
  minbao help                     Show this help

Admin Commands (require the admin passphrase):
  minbao admin config             Show model and temperature
  minbao admin set                Update the model configuration
    --model NAME                  Model name
    --temperature T               Temperature in [0, 2]
  minbao admin files              List knowledge-base files
  minbao admin upload FILE...     Upload .txt or .pdf files
  minbao admin delete NAME        Delete a knowledge-base file
    --yes                         Skip the confirmation prompt
  minbao admin rebuild            Rebuild the knowledge-base index
  minbao admin logs               Show recent conversations
    --size N                      Number of entries (1-100, default 20)
  --passphrase SECRET             Admin passphrase or TOTP code (or MINBAO_PASSPHRASE)

Global Flags:
  --backend URL                   Backend origin (default http://127.0.0.1:8000)
  --config PATH                   Config file (default ~/.minbao/config.toml)
  --lang TAG                      UI language (zh-Hans, en)
  --json                          JSON output
  -v, --verbose                   Log to stderr

TUI Keys:
  F1 / Alt+1                      Chat
  F2 / Alt+2                      Admin console
  Enter                           Send (Alt+Enter for a newline)
  Ctrl+C                          Quit

Environment Variables:
  MINBAO_BACKEND_URL              Backend origin
  MINBAO_ADMIN_PASSPHRASE         Configured admin secret
  MINBAO_PASSPHRASE               Passphrase entered by admin commands
  MINBAO_TOTP_SECRET              Shared secret for auth mode totp
  MINBAO_UPLOAD_DIR               Upload staging directory
  MINBAO_LANG                     UI language
  MINBAO_LOG_FILE                 Log file path
  NO_COLOR                        Disable colored output

Version: %s
`

// PrintUsage prints the help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("minbao version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name) into a command and its
// arguments.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 {
		parsedArgs.Subcommand = strings.ToLower(remaining[0])
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "chat":
		return CmdChat, parsedArgs
	case "ask":
		p := NewArgParser(remaining)
		parsedArgs.Query = strings.Join(p.PositionalFrom(0), " ")
		parsedArgs.Subcommand = ""
		return CmdAsk, parsedArgs
	case "admin":
		return CmdAdmin, parsedArgs
	case "doctor":
		return CmdDoctor, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags pulls the global flags out of args wherever they appear.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	takeValue := func(i *int, dst *string) {
		if *i+1 < len(args) {
			*i++
			*dst = args[*i]
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--backend":
			takeValue(&i, &parsedArgs.Backend)
		case "--config":
			takeValue(&i, &parsedArgs.ConfigPath)
		case "--lang":
			takeValue(&i, &parsedArgs.Lang)
		default:
			switch {
			case strings.HasPrefix(arg, "--backend="):
				parsedArgs.Backend = strings.TrimPrefix(arg, "--backend=")
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--lang="):
				parsedArgs.Lang = strings.TrimPrefix(arg, "--lang=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}
