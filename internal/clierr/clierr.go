// Package clierr defines the coded errors commands return. The code is
// stable and meant for scripts; the message is for people.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes.
const (
	TaskNotFound     = "TASK_NOT_FOUND"
	AmbiguousTaskID  = "AMBIGUOUS_TASK_ID"
	InvalidInput     = "INVALID_INPUT"
	InvalidDate      = "INVALID_DATE"
	InvalidTimeRange = "INVALID_TIME_RANGE"
	InvalidTaskID    = "INVALID_TASK_ID"
	NoChanges        = "NO_CHANGES"
	BoundaryError    = "BOUNDARY_ERROR"
	StatusConflict   = "STATUS_CONFLICT"
	ConfirmationReq  = "CONFIRMATION_REQUIRED"
	InternalError    = "INTERNAL_ERROR"
)

// Error is a failure with a machine-readable code and optional details.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetails attaches details and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode is 2 for InternalError and 1 for everything else.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // internal errors
	}
	return 1
}

// From returns err as a coded Error. Uncoded errors become InternalError
// carrying the original message.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(InternalError, err.Error())
}

// SilentError ends the process with Code after output was already written.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
