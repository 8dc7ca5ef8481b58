// Package validate wraps the shared go-playground validator used for
// command input.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	inputValidator *validator.Validate
	once           sync.Once
)

// V returns the shared validator. Field names in errors are the json names.
func V() *validator.Validate {
	once.Do(func() {
		inputValidator = validator.New(validator.WithRequiredStructEnabled())
		_ = inputValidator.RegisterValidation("notblank", notBlank)
		inputValidator.RegisterTagNameFunc(jsonFieldName)
	})
	return inputValidator
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// notBlank rejects strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates v. The returned message names the first failing field
// and is empty when v is valid.
func Struct(v any) (string, error) {
	err := V().Struct(v)
	if err == nil {
		return "", nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error(), err
	}
	return FieldMessage(verrs[0]), err
}

// FieldMessage renders a field error for the terminal.
func FieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "gt":
		return name + " must be greater than " + fe.Param()
	case "gte":
		return name + " must be at least " + fe.Param()
	case "oneof":
		return name + " must be one of " + fe.Param()
	case "eqfield":
		return name + " does not match"
	}
	return name + " is invalid"
}
