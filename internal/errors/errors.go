// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated credential doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrSignatureInvalid indicates a forged or tampered signed capability.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrCapabilityExpired indicates a signed capability past its expiry window.
	ErrCapabilityExpired = errors.New("capability expired")

	// ErrMethodMismatch indicates a signed capability used with an HTTP method it
	// was not issued for.
	ErrMethodMismatch = errors.New("method mismatch")

	// ErrSessionTerminal indicates an operation against a completed or aborted
	// multipart session.
	ErrSessionTerminal = errors.New("session terminal")

	// ErrInvalidPart indicates a multipart protocol violation (bad part number,
	// mismatched etag, missing or out-of-order part).
	ErrInvalidPart = errors.New("invalid part")

	// ErrBackend wraps a failure from the storage or query backend. The cause is
	// preserved for logging but must not be surfaced verbatim to the caller.
	ErrBackend = errors.New("backend error")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
