package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type every layer returns to the HTTP boundary.
//
// Design notes:
//  1. Code is a business code; its first three digits are the HTTP status (40400 -> 404).
//  2. Message is safe to show to the user.
//  3. Err keeps the underlying cause for logs and is never serialized.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by code, so wrapped sentinels still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus maps the business code onto an HTTP status.
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// IsServerError reports whether the message should be hidden from clients.
func (e *AppError) IsServerError() bool {
	return e.HTTPStatus() >= 500
}

// New creates an AppError without a cause.
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an infrastructure error as an internal error.
func Wrap(err error, message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Err: err}
}

// WithMessage copies a sentinel with a more specific message, keeping its code.
func WithMessage(base *AppError, message string) *AppError {
	return &AppError{Code: base.Code, Message: message, Err: base.Err}
}

// ============================================================
// Error codes
// ============================================================

const (
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002
	ErrCodeUnavailable   = 50300
	ErrCodeTimeout       = 50400

	ErrCodeValidation = 40000
	ErrCodeBindError  = 40001

	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103

	ErrCodeForbidden = 40300

	ErrCodeNotFound             = 40400
	ErrCodeUserNotFound         = 40401
	ErrCodeBookNotFound         = 40402
	ErrCodeOrderNotFound        = 40403
	ErrCodeNotificationNotFound = 40404
	ErrCodeReturnNotFound       = 40405
	ErrCodeBuybackNotFound      = 40406

	ErrCodeInsufficientStock = 40901
	ErrCodeInvalidState      = 40902
	ErrCodeDuplicateEntry    = 40903
	ErrCodeEmailDuplicate    = 40904
	ErrCodeISBNDuplicate     = 40905
)

var (
	ErrInternal      = New(ErrCodeInternal, "internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "database error")
	ErrRedisError    = New(ErrCodeRedisError, "cache service error")
	ErrTimeout       = New(ErrCodeTimeout, "request timed out")

	ErrValidation = New(ErrCodeValidation, "invalid parameters")
	ErrBindError  = New(ErrCodeBindError, "malformed request body")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "please log in first")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "token expired")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "invalid email or password")
	ErrForbidden       = New(ErrCodeForbidden, "access denied")

	ErrNotFound = New(ErrCodeNotFound, "resource not found")

	ErrInsufficientStock = New(ErrCodeInsufficientStock, "insufficient stock")
	ErrInvalidState      = New(ErrCodeInvalidState, "operation not allowed in current state")
	ErrDuplicateEntry    = New(ErrCodeDuplicateEntry, "duplicate entry")
)

// GetAppError extracts the AppError from err, wrapping unknown errors as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}

// HasCode reports whether err carries the given business code.
func HasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
