package errors

import "fmt"

// ValidationError creates an error for invalid user input (owner/name format, flags).
func ValidationError(message string) *ExplainError {
	return New(CategoryValidation, SeverityWarning, message)
}

// InvalidFieldError creates a validation error carrying the offending field and value.
func InvalidFieldError(field, value string) *ExplainError {
	return ValidationError(fmt.Sprintf("invalid %s format: %s", field, value)).
		WithContext("field", field).
		WithContext("value", value)
}

// NoMatchError creates a resolution error for a search term with zero results.
func NoMatchError(term string) *ExplainError {
	return New(CategoryResolution, SeverityError,
		fmt.Sprintf("no repositories found for search term: %s", term)).
		WithContext("term", term)
}

// CancelledError creates a user-cancellation error for a given stage.
func CancelledError(stage string) *ExplainError {
	return New(CategoryCancelled, SeverityInfo, "cancelled by user").
		WithContext("stage", stage)
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ExplainError {
	return New(CategoryConfig, SeverityFatal, message)
}

// NetworkError wraps a GitHub API failure. Network failures are transient,
// so they carry the retryable flag.
func NetworkError(err error, message string) *ExplainError {
	return Wrap(err, CategoryNetwork, SeverityError, message).WithRetryable()
}

// ExtractionError wraps a content-extraction failure.
func ExtractionError(err error, message string) *ExplainError {
	return Wrap(err, CategoryExtraction, SeverityError, message)
}

// GenerationError wraps a failure of the language-model tool.
func GenerationError(err error, message string) *ExplainError {
	return Wrap(err, CategoryGeneration, SeverityError, message)
}

// RenderingError wraps a renderer failure. Rendering errors are non-fatal;
// the pipeline reports them and falls back to direct text output.
func RenderingError(err error, message string) *ExplainError {
	return Wrap(err, CategoryRendering, SeverityWarning, message)
}
