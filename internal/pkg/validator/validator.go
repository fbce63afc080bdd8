// Package validator wraps a shared go-playground validator instance and
// flattens its errors into a field -> failed-rule map for the error envelope.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the struct's validate tags. A nil result means valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
