package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var scheduleRgx = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("schedule", validateSchedule)

	return validator
}

// validateSchedule accepts only zero-padded 24-hour clock strings ("19:30").
func validateSchedule(fl validator.FieldLevel) bool {
	return scheduleRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "schedule":
		return "must be a 24-hour HH:MM time"
	default:
		return "is invalid"
	}
}
