// Package derrors provides the typed errors used across compliment.
// Every error carries a stable code for programmatic handling and wraps
// its cause so errors.Is and errors.As keep working.
package derrors

import (
	"fmt"
)

// Error is the interface implemented by all compliment errors
type Error interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// EnumerationError is raised when a search path root cannot be listed
type EnumerationError struct {
	baseError
	Root string
}

// NewEnumerationError creates a new enumeration error
func NewEnumerationError(root string, message string, cause error) *EnumerationError {
	return &EnumerationError{
		baseError: baseError{
			code:    "ENUMERATION_ERROR",
			message: message,
			cause:   cause,
		},
		Root: root,
	}
}

// ResolutionError is raised when a scope or symbol cannot be resolved
type ResolutionError struct {
	baseError
	Symbol string
}

// NewResolutionError creates a new resolution error
func NewResolutionError(symbol string, message string, cause error) *ResolutionError {
	return &ResolutionError{
		baseError: baseError{
			code:    "RESOLUTION_ERROR",
			message: message,
			cause:   cause,
		},
		Symbol: symbol,
	}
}

// ContextError is raised when a code snippet cannot be parsed
type ContextError struct {
	baseError
	Offset int
}

// NewContextError creates a new context error. Offset is the byte offset
// in the snippet where parsing stopped.
func NewContextError(offset int, message string, cause error) *ContextError {
	return &ContextError{
		baseError: baseError{
			code:    "CONTEXT_ERROR",
			message: message,
			cause:   cause,
		},
		Offset: offset,
	}
}

// ConfigurationError represents errors in configuration files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// ValidationError represents errors during validation
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			code:    "VALIDATION_ERROR",
			message: message,
			cause:   cause,
		},
		Field: field,
	}
}

// NotFoundError represents errors when a resource is not found
type NotFoundError struct {
	baseError
	Resource string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, message string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			code:    "NOT_FOUND",
			message: message,
		},
		Resource: resource,
	}
}

// CodeOf returns the code of err if it, or anything it wraps, is a
// compliment error, and "" otherwise.
func CodeOf(err error) string {
	for err != nil {
		if e, ok := err.(Error); ok {
			return e.Code()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
