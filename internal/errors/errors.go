package errors

import (
	"errors"
	"fmt"
)

// CheckError is the structured error type for checkignore.
// Every error kind is fatal for the run: nothing is retried.
type CheckError struct {
	// Code is the unique error code (e.g., "ERR_101_RULES_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Dependency, etc.).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CheckError.
func (e *CheckError) Is(target error) bool {
	if t, ok := target.(*CheckError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CheckError) WithDetail(key, value string) *CheckError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *CheckError) WithSuggestion(suggestion string) *CheckError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CheckError with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *CheckError {
	return &CheckError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CheckError from an existing error.
// The error's message becomes the CheckError message.
func Wrap(code string, err error) *CheckError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a rule-file error. Use one of the 1XX codes.
func ConfigError(code, message string, cause error) *CheckError {
	return New(code, message, cause)
}

// IOError creates a traversal error. Use one of the 2XX codes.
func IOError(code, message string, cause error) *CheckError {
	return New(code, message, cause)
}

// DependencyError creates an error for a missing runtime capability.
func DependencyError(message string, cause error) *CheckError {
	return New(ErrCodeWatcherUnavailable, message, cause)
}

// ValidationError creates an invalid-input error.
func ValidationError(message string, cause error) *CheckError {
	return New(ErrCodeInvalidFlags, message, cause)
}

// As finds the first CheckError in err's chain.
func As(err error) (*CheckError, bool) {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	return GetCategory(err) == CategoryConfig
}

// IsIOError reports whether err is (or wraps) an IO error.
func IsIOError(err error) bool {
	return GetCategory(err) == CategoryIO
}

// GetCode extracts the error code from a CheckError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category from a CheckError anywhere in the chain.
// Returns empty string if there is none.
func GetCategory(err error) Category {
	if ce, ok := As(err); ok {
		return ce.Category
	}
	return ""
}
