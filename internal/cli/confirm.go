// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
// The pattern is:
//  1. --yes proceeds without prompting
//  2. --json requires --yes (no interactive prompts in JSON mode)
//  3. A non-interactive stdin requires --yes
//  4. Otherwise a y/N prompt decides

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfirmationOptions describes how a confirmation may be obtained.
type ConfirmationOptions struct {
	// Yes is set by --yes.
	Yes bool
	// JSONMode is set by --json.
	JSONMode bool
	// Interactive reports whether In can be prompted.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// RequireConfirmation asks whether to proceed with action.
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if opts.JSONMode {
		return false, &ValidationError{Field: "--yes", Reason: "confirmation required in JSON mode"}
	}
	if !opts.Interactive || opts.In == nil {
		return false, &ValidationError{Field: "--yes", Reason: "confirmation required but stdin is not a terminal"}
	}

	fmt.Fprintf(opts.Out, "%s [y/N]: ", action)
	input, err := readLine(opts.In)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(input)
	return response == "y" || response == "yes", nil
}
