package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Common error types for the connector
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAuth indicates the TSM session could not be authorized
	ErrAuth = errors.New("authentication failed")

	// ErrFetch indicates a status document could not be retrieved
	ErrFetch = errors.New("fetch failed")

	// ErrDecode indicates a status document could not be decoded
	ErrDecode = errors.New("decode failed")
)

// AuthError is returned when an authentication strategy fails to produce a credential
type AuthError struct {
	Method string
	Err    error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s login: %v", e.Method, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports ErrAuth as a match so callers can test the category
func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// NewAuthError wraps an error raised by the named authentication method
func NewAuthError(method string, err error) error {
	if err == nil {
		return nil
	}
	return &AuthError{Method: method, Err: err}
}

// FetchError is a transport failure or an unexpected HTTP status
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the wrapped error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports ErrFetch as a match
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// DecodeError is a malformed JSON or XML body
type DecodeError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

// Unwrap returns the wrapped error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports ErrDecode as a match
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// CheckError wraps an error with the name of the check that raised it
type CheckError struct {
	Check string
	Err   error
}

// Error implements the error interface
func (e *CheckError) Error() string {
	return fmt.Sprintf("check %q: %v", e.Check, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *CheckError) Unwrap() error {
	return e.Err
}

// WrapCheckError wraps an error with check context
func WrapCheckError(check string, err error) error {
	if err == nil {
		return nil
	}
	return &CheckError{
		Check: check,
		Err:   err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Is makes every validation failure match ErrInvalidConfig
func (v *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout, including network and deadline timeouts
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsCancelled checks if an error comes from a cancelled context
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsAuth checks if an error is an authentication error
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsFetch checks if an error is a fetch error
func IsFetch(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsDecode checks if an error is a decode error
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// FriendlyError converts technical errors to an operator hint
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Request timed out. Check that the server is reachable or raise --timeout."
	case IsCancelled(err):
		return "Operation was cancelled."
	case IsAuth(err):
		return "TSM login failed. Check the TSM credentials or the passwordless socket path."
	case IsDecode(err):
		return "The server returned a document that could not be parsed."
	case IsFetch(err):
		return "Failed to retrieve status. Check the base URL and network connectivity."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file, environment and command-line flags."
	default:
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	m := &MultiError{}
	for _, err := range errs {
		m.Add(err)
	}
	return m.ErrorOrNil()
}
