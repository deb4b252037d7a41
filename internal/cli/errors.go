// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for line-mode commands.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minbao/minbao-tui/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
	ExitNetworkError = 5
	ExitNotFound     = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed command step.
type CommandError struct {
	Command string // e.g. "admin"
	Action  string // e.g. "upload"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError is a bad argument.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ConfigError wraps a configuration load or validation failure.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrPassphraseRejected is returned when the admin passphrase does not match.
var ErrPassphraseRejected = errors.New("admin passphrase rejected")

// ErrMissingArgument reports a missing positional argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// WrapError wraps err with message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w, as JSON in JSON mode.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(w, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// DisplayErrorJSON writes err as a JSON object with an error_type.
func DisplayErrorJSON(w io.Writer, err error) {
	output := map[string]any{
		"success": false,
		"error":   err.Error(),
	}

	var (
		cmdErr *CommandError
		valErr *ValidationError
		cfgErr *ConfigError
	)
	switch {
	case errors.As(err, &valErr):
		output["error_type"] = "validation_error"
		output["field"] = valErr.Field
	case errors.As(err, &cfgErr):
		output["error_type"] = "config_error"
	case errors.Is(err, ErrPassphraseRejected):
		output["error_type"] = "auth_error"
	case api.IsTransport(err):
		output["error_type"] = "network_error"
	case api.IsStatus(err):
		output["error_type"] = "status_error"
		output["status"] = api.StatusCode(err)
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output)
}

// GetExitCode maps err to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return ExitUsageError
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	if errors.Is(err, ErrPassphraseRejected) {
		return ExitAuthError
	}
	if api.IsTransport(err) {
		return ExitNetworkError
	}
	switch api.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ExitAuthError
	case http.StatusNotFound:
		return ExitNotFound
	}
	var ttyErr *TTYRequiredError
	if errors.As(err, &ttyErr) {
		return ExitUsageError
	}
	return ExitGeneralError
}
