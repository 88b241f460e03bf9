package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryComposition Category = "composition"
	CategoryHydration   Category = "hydration"
	CategoryProtocol    Category = "protocol"
	CategoryConfig      Category = "config"
	CategoryCLI         Category = "cli"
)

// ArborError is a structured error with a stable code, fix suggestion,
// and documentation link.
type ArborError struct {
	// Code is a unique error identifier (e.g., "A101").
	Code string

	// Category is the error type (composition, hydration, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ArborError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ArborError) Unwrap() error {
	return e.Wrapped
}

// Wrap wraps another error.
func (e *ArborError) Wrap(err error) *ArborError {
	e.Wrapped = err
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ArborError) WithSuggestion(s string) *ArborError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ArborError) WithDetail(d string) *ArborError {
	e.Detail = d
	return e
}

// WithMessagef replaces the message with a formatted one. The code and
// category from the registry are preserved.
func (e *ArborError) WithMessagef(format string, args ...any) *ArborError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}
