package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Metadata lookup errors
	ErrLookupNotFound ErrorCode = "LOOKUP_NOT_FOUND"
	ErrLookupFailed   ErrorCode = "LOOKUP_FAILED"

	// External command errors
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"
	ErrCommandStart  ErrorCode = "COMMAND_START"

	// Repository errors
	ErrRepoNotFound ErrorCode = "REPO_NOT_FOUND"

	// Plan errors
	ErrPlanWrite ErrorCode = "PLAN_WRITE"
)

// AurplanError represents a structured error with code and details
type AurplanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AurplanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AurplanError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AurplanError) Is(target error) bool {
	var targetErr *AurplanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AurplanError with the given code and message
func New(code ErrorCode, message string) *AurplanError {
	return &AurplanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AurplanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AurplanError {
	return &AurplanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AurplanError
func Wrap(err error, code ErrorCode, message string) *AurplanError {
	if err == nil {
		return nil
	}
	return &AurplanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AurplanError {
	if err == nil {
		return nil
	}
	return &AurplanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AurplanError) WithDetail(key string, value interface{}) *AurplanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var aurplanErr *AurplanError
	if errors.As(err, &aurplanErr) {
		return aurplanErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AurplanError
func GetErrorCode(err error) ErrorCode {
	var aurplanErr *AurplanError
	if errors.As(err, &aurplanErr) {
		return aurplanErr.Code
	}
	return ErrUnknown
}
