package models

import (
	"errors"
	"fmt"
)

type ErrorCategory string

// Error categories raised while loading and synthesizing a topology
const (
	// ErrConfig is returned for malformed or missing configuration fields
	ErrConfig ErrorCategory = "config_error"

	// ErrDependency is returned when a declaration references a resource
	// that has not been declared or registered yet
	ErrDependency ErrorCategory = "dependency_error"

	// ErrDuplicateName is returned when two resources of the same category share a name
	ErrDuplicateName ErrorCategory = "duplicate_name"
)

// Error represents a synthesis failure with enough context to point at
// the offending resource.
type Error struct {
	// Category for programmatic error handling
	Category ErrorCategory

	// ResourceType is the category of the offending resource
	ResourceType ResourceCategory

	// Name is the configured name of the offending resource
	Name string

	// Message provides human-readable details
	Message string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns a formatted error message
func (e *Error) Error() string {
	msg := e.Message
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s [%s/%s]", e.Category, msg, e.ResourceType, e.Name)
	}
	if e.ResourceType != "" {
		return fmt.Sprintf("%s: %s [%s]", e.Category, msg, e.ResourceType)
	}
	return fmt.Sprintf("%s: %s", e.Category, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a new error with the given category and details
func NewError(category ErrorCategory, resourceType ResourceCategory, name, message string, underlying error) *Error {
	return &Error{
		Category:     category,
		ResourceType: resourceType,
		Name:         name,
		Message:      message,
		Underlying:   underlying,
	}
}

// NewConfigError reports an invalid or missing field of a declared resource
func NewConfigError(resourceType ResourceCategory, name, message string, underlying error) *Error {
	return NewError(ErrConfig, resourceType, name, message, underlying)
}

// NewDependencyError reports a reference to a resource that does not exist
func NewDependencyError(resourceType ResourceCategory, name, message string) *Error {
	return NewError(ErrDependency, resourceType, name, message, nil)
}

// NewDuplicateNameError reports a name declared twice within one category
func NewDuplicateNameError(resourceType ResourceCategory, name string) *Error {
	return NewError(ErrDuplicateName, resourceType, name, "name declared more than once", nil)
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}

	return false
}
