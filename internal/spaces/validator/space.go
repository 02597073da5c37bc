package validator

import (
	"errors"
	"fmt"
	"reservo/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type SpaceValidator struct {
	validate *validator.Validate
}

func NewSpaceValidator() *SpaceValidator {
	return &SpaceValidator{
		validate: validator.New(),
	}
}

func (v *SpaceValidator) Validate(space *model.Space) error {
	if err := v.validate.Struct(space); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *SpaceValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: translate(err),
		})
	}

	return validationErrors
}

func translate(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "mongodb":
		return "must be a valid ObjectID"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
