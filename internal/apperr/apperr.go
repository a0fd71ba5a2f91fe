// Package apperr holds the error taxonomy shared by every client component.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthorizationDenied is returned when the policy refuses an action. A denied
	// action is never dispatched to the gateway.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrInvalidCredentials is returned by login when the gateway answers non-2xx.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConnectionError wraps a transport failure (dial, timeout, reset, bad body).
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connection error: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ServerError is a non-2xx gateway response.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server error %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server error %d: %s", e.Op, e.StatusCode, e.Message)
}

// ValidationError is a client-detectable mistake, raised before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Denied wraps ErrAuthorizationDenied with the refused action.
func Denied(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAuthorizationDenied)
}

func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StatusCode returns the HTTP status carried by a ServerError, or 0.
func StatusCode(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
