// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

// # Tag-based Validation

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// engine lazily builds the shared go-playground validator. Field names in
// reported errors use the `json` tag so clients see the names they sent.
func engine() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return structValidator
}

// Struct validates a request DTO against its `validate` struct tags.
//
// It returns nil or a VALIDATION_ERROR [apperr.AppError] whose details list
// every failing field.
//
// Example:
//
//	type request struct {
//	    Name string `json:"name" validate:"required,max=100"`
//	}
func Struct(value any) error {
	err := engine().Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.ValidationError("Invalid request")
	}

	v := &Validator{}
	for _, fieldError := range fieldErrors {
		v.check(false, fieldError.Field(), describe(fieldError))
	}
	return v.Err()
}

// describe turns a failed tag into a short client-facing message.
func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Maximum %s", fieldError.Param())
	case "min":
		return fmt.Sprintf("Minimum %s", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fieldError.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldError.Param(), " ", ", "))
	case "dive":
		return "Contains an invalid item"
	default:
		return fmt.Sprintf("Failed %q rule", fieldError.Tag())
	}
}
