package services

import (
	"errors"
)

// ErrorCode classifies a service failure
type ErrorCode string

// Error codes for service failures
const (
	CodeValidation         ErrorCode = "validation_error"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeStatus             ErrorCode = "status_error"
	CodeLocked             ErrorCode = "account_locked"
	CodeInvalidCredentials ErrorCode = "invalid_credentials"
	CodeInvalidTransition  ErrorCode = "invalid_transition"
	CodeUnavailable        ErrorCode = "unavailable"
	CodeStorage            ErrorCode = "storage_error"
	CodeInternal           ErrorCode = "internal_error"
)

// Error is a tagged service failure. Every public operation returns one of
// these instead of leaking collaborator errors; Message is user-facing and
// Detail carries structured fields (remaining attempts, current status).
type Error struct {
	Code    ErrorCode
	Message string
	Detail  map[string]any
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches a structured detail field and returns the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Detail == nil {
		e.Detail = make(map[string]any)
	}
	e.Detail[key] = value
	return e
}

// NewValidationError reports malformed or forbidden input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports an absent entity.
func NewNotFoundError(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewStatusError reports an account blocked by its status.
func NewStatusError(message string) *Error {
	return &Error{Code: CodeStatus, Message: message}
}

// NewLockedError reports an account inside its lockout window.
func NewLockedError(message string) *Error {
	return &Error{Code: CodeLocked, Message: message}
}

// NewInvalidCredentialsError reports a failed credential check.
func NewInvalidCredentialsError(message string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: message}
}

// NewInvalidTransitionError reports a state machine violation, including the
// stale-approval race.
func NewInvalidTransitionError(message string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: message}
}

// NewUnavailableError reports a listing that is not open for applications.
func NewUnavailableError(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}

// NewStorageError wraps a collaborator failure with the original cause.
func NewStorageError(message string, cause error) *Error {
	return &Error{Code: CodeStorage, Message: message, Err: cause}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: cause}
}

// CodeOf extracts the error code, or CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// DetailOf extracts structured detail from a service error, or nil.
func DetailOf(err error) map[string]any {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Detail
	}
	return nil
}
