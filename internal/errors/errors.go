// Package errors provides the structured error type used at the CLI
// boundary for category-based exit codes and log levels.
package errors

import (
	"fmt"
)

// ErrorCategory classifies a SiteError for exit-code mapping and display.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategorySearch     ErrorCategory = "search"

	// Runtime and infrastructure errors
	CategoryServer   ErrorCategory = "server"
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ContextFields carries structured context for a SiteError.
type ContextFields map[string]any

// SiteError is a structured error with category, severity, and context.
type SiteError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *SiteError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a structured context field.
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a SiteError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{Category: category, Severity: severity, Message: message}
}

// Wrap creates a SiteError wrapping cause.
func Wrap(cause error, category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{Category: category, Severity: severity, Message: message, Cause: cause}
}

// GetCategory extracts the category, defaulting to CategoryInternal for
// unclassified errors.
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*SiteError); ok {
		return se.Category
	}
	return CategoryInternal
}

// IsCategory checks whether err is a SiteError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*SiteError); ok {
		return se.Category == category
	}
	return false
}

// Convenience constructors for common failure shapes.

func ConfigError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, message)
}

func BuildFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func RenderFailed(page string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("page", page)
}

func FileSystemError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}
