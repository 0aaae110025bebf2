// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Command errors.
	ErrValidation = errors.New("validation failed")

	// Import errors.
	ErrImport = errors.New("import rejected")

	// Durable storage errors.
	ErrPersistence = errors.New("persistence failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports invalid command input. No state is changed when
// one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%v: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ImportError reports a rejected import document.
type ImportError struct {
	Err    error
	Reason string
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrImport, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrImport, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is makes ImportError match ErrImport.
func (e *ImportError) Is(target error) bool {
	return target == ErrImport
}

// PersistenceError reports a durable storage read or write failure.
type PersistenceError struct {
	Err error
	Op  string
	Key string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v: %s %q: %v", ErrPersistence, e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
