package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across layers.
type ErrorCode string

const (
	// ErrCodeValidation marks errors detected locally before any request.
	ErrCodeValidation ErrorCode = "VALIDATION"
	// ErrCodeUnauthorized marks a missing, stale or rejected credential.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRemote marks a non-2xx response from the remote boundary.
	ErrCodeRemote ErrorCode = "REMOTE"
	// ErrCodeNetwork marks a transport failure before any response arrived.
	ErrCodeNetwork ErrorCode = "NETWORK"
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Generic fallback messages surfaced when the boundary gives no detail.
const (
	MsgRequestFailed = "Request failed"
	MsgNetworkError  = "Network error occurred"
)

// Error represents a classified error surfaced next to the acting control.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsErrorCode helps checking error classifications.
func IsErrorCode(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
