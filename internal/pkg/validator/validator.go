// Package validator wraps go-playground struct validation behind one call
// that reports failures as a field-to-rule map.
package validator

import (
	"errors"

	validatorlib "github.com/go-playground/validator/v10"
)

var validate = validatorlib.New()

// Validate checks the struct's validate tags and returns the failing fields
// keyed by the rule they broke, or nil when everything passes.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var verrs validatorlib.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}
