// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientData   = errors.New("insufficient data for calculation")
	ErrUnknownStrategy    = errors.New("unknown strategy")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDatabaseError      = errors.New("database error")
)

// AuthError represents a credential or login failure during the session
// exchange. The session cache is never partially updated when one occurs.
type AuthError struct {
	Stage   string // "credentials", "totp", "login", "response"
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed [%s]: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("authentication failed [%s]: %s", e.Stage, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError.
func NewAuthError(stage, message string, err error) *AuthError {
	return &AuthError{Stage: stage, Message: message, Err: err}
}

// TransportError represents an external response that could not be
// normalized into a structured success or failure.
type TransportError struct {
	Endpoint string
	Raw      string // truncated raw payload for diagnostics
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error [%s]: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("transport error [%s]: unstructured response: %s", e.Endpoint, e.Raw)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError.
func NewTransportError(endpoint, raw string, err error) *TransportError {
	const maxRaw = 200
	if len(raw) > maxRaw {
		raw = raw[:maxRaw]
	}
	return &TransportError{Endpoint: endpoint, Raw: raw, Err: err}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
