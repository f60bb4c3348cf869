package mcp

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// inputValidate checks tool inputs against their validate tags before any
// workspace call. Domain invariants are still enforced by the workspace.
var inputValidate = validator.New()

// validateInput returns an error wrapping domain.ErrInvalidInput that names
// the first offending field.
func validateInput(input any) error {
	err := inputValidate.Struct(input)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return fmt.Errorf("%w: %s failed %q", domain.ErrInvalidInput, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
