package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrValidation", ErrValidation},
		{"ErrNoAnchor", ErrNoAnchor},
		{"ErrAnchorNotFound", ErrAnchorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrNotImplemented,
		ErrValidation,
		ErrNoAnchor,
		ErrAnchorNotFound,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Entity: "idea", Field: "rephrase", Reason: "too short"}
	assert.Equal(t, "idea.rephrase: too short", err.Error())
}

func TestValidationError_UnwrapsToErrValidation(t *testing.T) {
	var err error = &ValidationError{Entity: "relation", Field: "toIdeaId", Reason: "self"}
	assert.True(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("adding relation: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))

	var vErr *ValidationError
	assert.True(t, errors.As(wrapped, &vErr))
	assert.Equal(t, "toIdeaId", vErr.Field)
}
