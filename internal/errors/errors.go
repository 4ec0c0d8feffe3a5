// Package errors provides a lightweight structured error type (ExplainError)
// for category-based classification and exit-code mapping in the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an ExplainError for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Repository resolution errors (no match for a search term, bad owner/name)
	CategoryResolution ErrorCategory = "resolution"

	// User-initiated cancellation (confirmation declined, prompt interrupted)
	CategoryCancelled ErrorCategory = "cancelled"

	// External system integration errors
	CategoryNetwork    ErrorCategory = "network"
	CategoryExtraction ErrorCategory = "extraction"
	CategoryGeneration ErrorCategory = "generation"
	CategoryRendering  ErrorCategory = "rendering"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ExplainError is a structured error with category, severity, and context
type ExplainError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Retryable bool          `json:"retryable"`
	Cause     error         `json:"cause,omitempty"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ExplainError
type ContextFields map[string]any

// Error implements the error interface
func (e *ExplainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ExplainError) Unwrap() error {
	return e.Cause
}

// WithRetryable marks the error as transient; retrying the same invocation
// may succeed.
func (e *ExplainError) WithRetryable() *ExplainError {
	e.Retryable = true
	return e
}

// WithContext adds context information to the error
func (e *ExplainError) WithContext(key string, value any) *ExplainError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ExplainError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ExplainError {
	return &ExplainError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ExplainError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ExplainError {
	return &ExplainError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ee, ok := err.(*ExplainError); ok {
		return ee.Category == category
	}
	return false
}

// IsCancelled reports whether an error represents a user-initiated cancellation.
// Cancellations exit with status 0; everything else non-nil exits 1.
func IsCancelled(err error) bool {
	return IsCategory(err, CategoryCancelled)
}

// IsRetryable reports whether an error is marked as transient.
func IsRetryable(err error) bool {
	if ee, ok := err.(*ExplainError); ok {
		return ee.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if not an ExplainError
func GetCategory(err error) ErrorCategory {
	if ee, ok := err.(*ExplainError); ok {
		return ee.Category
	}
	return CategoryInternal
}
