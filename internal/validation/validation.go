// Package validation turns struct tag rules into client-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	apperrors "coursehub/internal/errors"
)

// Validator checks structs tagged with `validate` and names fields by their `label` tag.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator. Every violated rule yields one message
// and the result is an *apperrors.ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return apperrors.NewValidationError(messages...)
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("%s should be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s should be at most %s characters long", label, fe.Param())
	case "gte":
		return label + " must not be negative"
	case "numeric", "number":
		return label + " must be a number"
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
