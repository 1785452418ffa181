package error

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeUnauthenticated    ErrorCode = "AUTH_1002"
	ErrCodeMalformedToken     ErrorCode = "AUTH_1003"
	ErrCodeAccessDenied       ErrorCode = "AUTH_1004"

	// Account errors (2xxx)
	ErrCodeDuplicateAccount ErrorCode = "ACCT_2001"
	ErrCodeAccountNotFound  ErrorCode = "ACCT_2002"
	ErrCodeRoleMismatch     ErrorCode = "ACCT_2003"

	// Validation errors (3xxx)
	ErrCodeValidation ErrorCode = "VALID_3001"

	// Infrastructure errors (5xxx)
	ErrCodeInternalFailure ErrorCode = "SERVER_5001"
)

// AppError represents a structured application error. Details never carry
// passwords, raw tokens, or hashes; Cause stays server-side only.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets callers match catalog errors by code with errors.Is.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Common error constructors

// ErrInvalidCredentials covers both unknown email and wrong password; the
// shape is identical for the two branches so the caller cannot tell which.
func ErrInvalidCredentials() *AppError {
	return NewAppError(ErrCodeInvalidCredentials, "Invalid email or password", "", nil)
}

func ErrUnauthenticated(details string) *AppError {
	return NewAppError(ErrCodeUnauthenticated, "Authentication required", details, nil)
}

// ErrInvalidToken covers a bearer token that fails the signature or expiry
// check.
func ErrInvalidToken() *AppError {
	return NewAppError(ErrCodeUnauthenticated, "Invalid or expired token", "", nil)
}

func ErrMalformedToken() *AppError {
	return NewAppError(ErrCodeMalformedToken, "Refresh token malformed", "", nil)
}

// ErrAccessDenied covers "no stored session", hash mismatch, and a rotated-out
// token; never distinguishes the cases to the caller.
func ErrAccessDenied() *AppError {
	return NewAppError(ErrCodeAccessDenied, "Access denied", "", nil)
}

func ErrDuplicateAccount() *AppError {
	return NewAppError(ErrCodeDuplicateAccount, "Account with this email already exists", "", nil)
}

func ErrAccountNotFound(accountID string) *AppError {
	return NewAppError(ErrCodeAccountNotFound, "Account not found", fmt.Sprintf("Account ID: %s", accountID), nil)
}

// ErrRoleMismatch is surfaced by collaborators as a not-found-style error from
// their own domain so it does not leak account existence across domains.
func ErrRoleMismatch(expected string) *AppError {
	return NewAppError(ErrCodeRoleMismatch, "Account does not hold the expected role", fmt.Sprintf("Expected role: %s", expected), nil)
}

func ErrValidation(details string) *AppError {
	return NewAppError(ErrCodeValidation, "Invalid request", details, nil)
}

func ErrInternalFailure(operation string, cause error) *AppError {
	return NewAppError(ErrCodeInternalFailure, "Internal server error", fmt.Sprintf("Operation: %s", operation), cause)
}

// HTTPStatus maps an error to its HTTP status code. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case ErrCodeInvalidCredentials, ErrCodeUnauthenticated, ErrCodeMalformedToken:
			return http.StatusUnauthorized
		case ErrCodeAccessDenied:
			return http.StatusForbidden
		case ErrCodeDuplicateAccount:
			return http.StatusConflict
		case ErrCodeAccountNotFound, ErrCodeRoleMismatch:
			return http.StatusNotFound
		case ErrCodeValidation:
			return http.StatusUnprocessableEntity
		case ErrCodeInternalFailure:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
