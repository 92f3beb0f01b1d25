package diff

import (
	"errors"
	"fmt"
)

// Error categories raised while comparing templates
const (
	// ErrInvalidInput represents validation errors in input parameters
	ErrInvalidInput = "invalid_input"

	// ErrComparisonFailed represents errors during property comparison
	ErrComparisonFailed = "comparison_failed"
)

// DiffError represents an error that occurred while comparing two templates
// with additional context about what went wrong.
type DiffError struct {
	// Category helps with programmatic error handling
	Category string

	// Message provides human-readable details
	Message string

	// LogicalID identifies which resource had the error (if applicable)
	LogicalID string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns the error message
func (e *DiffError) Error() string {
	msg := e.Message
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	if e.LogicalID != "" {
		return fmt.Sprintf("%s: %s (resource: %s)", e.Category, msg, e.LogicalID)
	}
	return fmt.Sprintf("%s: %s", e.Category, msg)
}

// Unwrap returns the underlying error (for errors.Is/As support)
func (e *DiffError) Unwrap() error {
	return e.Underlying
}

// NewDiffError creates a new error with the given category and details
func NewDiffError(category, message, logicalID string, underlying error) *DiffError {
	return &DiffError{
		Category:   category,
		Message:    message,
		LogicalID:  logicalID,
		Underlying: underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category string) bool {
	var e *DiffError
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}
