// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate reports bad input as one VALIDATION_ERROR carrying every
failing field, never just the first.

Services build a [Validator] per call and chain rules on it:

	err := (&validate.Validator{}).
		Required("name", input.Name).
		MaxLen("name", input.Name, 120).
		Err()

Request bodies with `validate` struct tags go through [Struct] instead.
*/
package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/pkg/uuid"
)

// ErrInvalidJSON answers bodies that do not decode.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates field failures. The zero value is ready; do not share it.
type Validator struct {
	failures []apperr.FieldError
}

func (validator *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		validator.failures = append(validator.failures, apperr.FieldError{Field: field, Message: message})
	}
	return validator
}

// # Rules

// Required rejects blank and whitespace-only values.
func (validator *Validator) Required(field, value string) *Validator {
	return validator.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MaxLen counts runes, not bytes, so species names in kana fit as typed.
func (validator *Validator) MaxLen(field, value string, limit int) *Validator {
	return validator.check(utf8.RuneCountInString(value) <= limit, field, fmt.Sprintf("Maximum %d characters", limit))
}

func (validator *Validator) MinLen(field, value string, limit int) *Validator {
	return validator.check(utf8.RuneCountInString(value) >= limit, field, fmt.Sprintf("Minimum %d characters", limit))
}

func (validator *Validator) UUID(field, value string) *Validator {
	return validator.check(uuid.Valid(value), field, "Must be a valid UUID")
}

func (validator *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return validator.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field when failed is true.
func (validator *Validator) Custom(field string, failed bool, message string) *Validator {
	return validator.check(!failed, field, message)
}

// # Result

func (validator *Validator) HasErrors() bool { return len(validator.failures) > 0 }

// Err ends a chain: nil when every rule passed.
func (validator *Validator) Err() error {
	if !validator.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", validator.failures...)
}

// RequiredError builds a single-field VALIDATION_ERROR.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
