// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeRequest means the request could not be constructed.
	ErrTypeRequest
	// ErrTypeTransport means no HTTP response was received.
	ErrTypeTransport
	// ErrTypeStatus means the backend responded with a non-2xx status.
	ErrTypeStatus
	// ErrTypeDecode means a 2xx response body was not in the expected shape.
	ErrTypeDecode
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeRequest:
		return "request"
	case ErrTypeTransport:
		return "transport"
	case ErrTypeStatus:
		return "status"
	case ErrTypeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Type ErrorType
	// Op names the backend operation, e.g. "chat" or "upload".
	Op string
	// Status is the HTTP status code for ErrTypeStatus, else 0.
	Status int
	// Detail is the server-provided error detail, if any.
	Detail  string
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for errors.Is checks against the error type only.
var (
	ErrTransport = &ClientError{Type: ErrTypeTransport, Message: "backend unreachable"}
	ErrStatus    = &ClientError{Type: ErrTypeStatus, Message: "backend returned an error"}
)

// Is matches a ClientError against a sentinel by Type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	switch t {
	case ErrTransport:
		return e.Type == ErrTypeTransport
	case ErrStatus:
		return e.Type == ErrTypeStatus
	}
	return false
}

// =============================================================================
// HELPERS
// =============================================================================

// IsTransport reports whether err is a failure to receive any response.
func IsTransport(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTransport
}

// IsStatus reports whether err is a non-2xx backend response.
func IsStatus(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeStatus
}

// IsCanceled reports whether err was caused by context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}

// Detail returns the most specific human-readable message carried by err:
// the server detail when present, otherwise the full error text.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var ce *ClientError
	if errors.As(err, &ce) && ce.Detail != "" {
		if ce.Status != 0 {
			return fmt.Sprintf("%d: %s", ce.Status, ce.Detail)
		}
		return ce.Detail
	}
	return err.Error()
}
