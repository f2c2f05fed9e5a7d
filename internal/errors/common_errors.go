package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataFormat       ErrorType = "DATA_FORMAT"
	ErrTypeUnknownCountry   ErrorType = "UNKNOWN_COUNTRY"
	ErrTypeInvariant        ErrorType = "INVARIANT_VIOLATION"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeInvalidParameter ErrorType = "INVALID_PARAMETER"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeNotFound         ErrorType = "NOT_FOUND"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewDataFormatError creates an error for malformed or unparseable input.
// Fatal to the load; no partial dataset survives it.
func NewDataFormatError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDataFormat, message, cause)
}

// NewUnknownCountryError creates a per-row standardization error. Callers
// treat it as a warning: the row is excluded and counted, the load goes on.
func NewUnknownCountryError(country string) *AppError {
	return NewAppError(ErrTypeUnknownCountry, fmt.Sprintf("no ISO3 mapping for country %q", country), nil).
		WithContext("country", country)
}

// NewInvariantError creates an error for canonical-uniqueness violations.
// Reaching this means an upstream cleaning bug, so it is always fatal.
func NewInvariantError(message string) *AppError {
	return NewAppError(ErrTypeInvariant, message, nil)
}

// NewInsufficientDataError creates an error for series too short to fit.
func NewInsufficientDataError(got, want int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("series has %d observations, need at least %d", got, want), nil).
		WithContext("observations", got)
}

// NewInvalidParameterError creates an error for an out-of-range parameter.
func NewInvalidParameterError(param string, value interface{}) *AppError {
	return NewAppError(ErrTypeInvalidParameter,
		fmt.Sprintf("invalid value for %s: %v", param, value), nil).
		WithContext("parameter", param)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}
