// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and hidden input.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

func isTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool { return isTerminal(os.Stdin) }

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool { return isTerminal(os.Stdout) }

// Answers wrap to the terminal, clamped to this range.
const (
	DefaultTerminalWidth = 80
	MinTerminalWidth     = 40
	maxWrapWidth         = 120
)

// GetTerminalWidth returns the wrap width for rendered answers.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultTerminalWidth
	}
	return min(max(w, MinTerminalWidth), maxWrapWidth)
}

var colorProfile = sync.OnceValue(func() termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case os.Getenv("FORCE_COLOR") != "":
		return termenv.NewOutput(os.Stdout, termenv.WithUnsafe()).EnvColorProfile()
	case !IsStdoutTTY():
		return termenv.Ascii
	}
	return termenv.ColorProfile()
})

// GetColorProfile returns the profile used for styled CLI output. NO_COLOR
// wins over FORCE_COLOR; a redirected stdout gets Ascii.
func GetColorProfile() termenv.Profile { return colorProfile() }

// =============================================================================
// INTERACTIVE INPUT
// =============================================================================

// TTYRequiredError is returned when an operation requires a TTY but none is available.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "stdin is not a terminal; cannot " + e.Operation + " interactively"
	}
	return "stdin is not a terminal; interactive input not available"
}

// ReadPassphrase prompts on stderr and reads a line from the terminal
// without echo.
func ReadPassphrase(prompt string) (string, error) {
	if !IsTTY() {
		return "", &TTYRequiredError{Operation: "read the passphrase"}
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}

// readLine reads one trimmed line from r.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
