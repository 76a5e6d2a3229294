package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})
	if err != nil {
		panic(err)
	}
	return v
}

// validateRequest returns an error wrapping ErrValidation that names the
// first offending field.
func validateRequest(r interface{}) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", ErrValidation, field)
	case "bcryptmax":
		return fmt.Errorf("%w: %s must be at most %d bytes", ErrValidation, field, bcryptMaxBytes)
	default:
		return fmt.Errorf("%w: %s is invalid", ErrValidation, field)
	}
}
