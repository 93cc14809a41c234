// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every service returns to the HTTP layer.

An [AppError] carries a machine-readable code, a message that is safe to show
to the client, optional per-field details and, for server faults, the
underlying cause. The HTTP status is derived from the code.

	apperr.NotFound("Individual")              // 404 NOT_FOUND
	apperr.ValidationError("Validation failed", // 400 VALIDATION_ERROR
	    apperr.FieldError{Field: "name", Message: "This field is required"})
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Codes

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
	CodeUnavailable:  http.StatusServiceUnavailable,
}

// # Types

// AppError is the canonical error of the API. Cause is logged, never serialised.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one field-level validation failure, keyed by JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// New builds an error for code. Unknown codes map to 500.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Constructors

// NotFound reports a missing resource as "<resource> not found".
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }

func Forbidden(message string) *AppError { return New(CodeForbidden, message) }

// Conflict reports a uniqueness violation such as a taken username.
func Conflict(message string) *AppError { return New(CodeConflict, message) }

// ValidationError reports bad input, optionally per field.
func ValidationError(message string, details ...FieldError) *AppError {
	err := New(CodeValidation, message)
	err.Details = details
	return err
}

// ServiceUnavailable reports a disabled or unreachable dependency, e.g. image storage.
func ServiceUnavailable(message string) *AppError {
	return New(CodeUnavailable, message)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := New(CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether err's chain holds an [*AppError] with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
