package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrValidation indicates an entity violates one of its invariants.
	// Returned errors are *ValidationError values that unwrap to this.
	ErrValidation = errors.New("validation failed")

	// ErrNoAnchor indicates a selection produced no usable rectangle.
	// Callers treat it as "nothing to save".
	ErrNoAnchor = errors.New("no anchor produced")

	// ErrAnchorNotFound indicates a stored quote could not be re-found
	// in the current text of its page.
	ErrAnchorNotFound = errors.New("anchor quote not found on page")
)

// ValidationError describes a single violated invariant.
type ValidationError struct {
	// Entity is the entity kind, e.g. "idea" or "relation".
	Entity string

	// Field is the offending field name.
	Field string

	// Reason is a human-readable explanation shown to the user.
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
