package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/benvon/roda-da-vida/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("wheel_mode", validateWheelMode); err != nil {
		panic(fmt.Sprintf("failed to register wheel_mode validator: %v", err))
	}
}

// validateWheelMode validates that a string is a valid Mode value
func validateWheelMode(fl validator.FieldLevel) bool {
	return models.Mode(fl.Field().String()).Valid()
}

// StripControl removes control characters other than newline and tab.
// Surrounding whitespace is kept, so " A" and "A" stay distinct names.
func StripControl(text string) string {
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// FirstError renders the first field error of a validator failure as
// "field: tag" for API messages.
func FirstError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("%s: %s", strings.ToLower(errs[0].Field()), errs[0].Tag())
	}
	return err.Error()
}
