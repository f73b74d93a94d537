// Package domain defines the core domain models for craftgate.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes follow the format CG-<AREA>-<NNNN>. The last four digits carry the
// HTTP status class the gateway maps the error to (e.g. 4040 -> 404).
type DomainError struct {
	Code    string // Error code (e.g., "CG-HOST-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithMessage returns a copy of the error with a different client-facing
// message. The code, and therefore errors.Is matching, is unchanged.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: message,
		Details: e.Details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// GetErrorMessage returns the client-facing message of a DomainError.
// Details and causes are intentionally left out.
func GetErrorMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("CG-ARG-4000", "bad request")

	// ErrMissingField indicates a required request field is absent.
	ErrMissingField = NewDomainError("CG-ARG-4001", "missing required field")

	// ErrNotFound indicates no route serves the requested path.
	ErrNotFound = NewDomainError("CG-ARG-4040", "Not found")

	// ErrMethodNotAllowed indicates the path exists but not for this method.
	ErrMethodNotAllowed = NewDomainError("CG-ARG-4050", "Method not allowed")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrUnauthorized covers absent, malformed, forged and expired tokens alike.
	ErrUnauthorized = NewDomainError("CG-AUTH-4010", "Unauthorized")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = NewDomainError("CG-AUTH-4011", "Invalid credentials")
)

// ============================================================================
// Host Errors (HOST)
// ============================================================================

var (
	// ErrPlayerNotFound indicates the named player is not online.
	ErrPlayerNotFound = NewDomainError("CG-HOST-4040", "Player not found")

	// ErrInvalidGameMode indicates an unknown game mode name.
	ErrInvalidGameMode = NewDomainError("CG-HOST-4001", "Invalid gamemode")

	// ErrWorldNotFound indicates the named world does not exist.
	ErrWorldNotFound = NewDomainError("CG-HOST-4041", "World not found")

	// ErrUnknownCommand indicates the console command is not registered.
	ErrUnknownCommand = NewDomainError("CG-HOST-4002", "Unknown command")

	// ErrCommandFailed indicates a console command ran but did not succeed.
	ErrCommandFailed = NewDomainError("CG-HOST-5001", "Command failed")

	// ErrHostStopped indicates the host logic loop is not running.
	ErrHostStopped = NewDomainError("CG-HOST-5030", "host is not running")

	// ErrQueueFull indicates the host task queue cannot accept more work.
	ErrQueueFull = NewDomainError("CG-HOST-5031", "host task queue is full")
)

// ============================================================================
// Dispatch Errors (DISP)
// ============================================================================

var (
	// ErrDispatchFailure indicates the command could not be run to completion
	// on the host logic goroutine.
	ErrDispatchFailure = NewDomainError("CG-DISP-5000", "dispatch failed")

	// ErrDispatchTimeout indicates no outcome was published within the bound.
	ErrDispatchTimeout = NewDomainError("CG-DISP-5040", "dispatch timed out")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal server error.
	ErrInternal = NewDomainError("CG-SYS-5000", "internal server error")

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewDomainError("CG-SYS-5001", "storage error")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("CG-SYS-4290", "Too many requests")
)
