// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

/*
TestValidator_Rules runs each rule once on a passing and once on a failing value.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(*validate.Validator) *validate.Validator
		message string
	}{
		{"required_blank", func(v *validate.Validator) *validate.Validator { return v.Required("name", "  ") }, "This field is required"},
		{"max_len_runes", func(v *validate.Validator) *validate.Validator { return v.MaxLen("name", "オオクワガタ", 5) }, "Maximum 5 characters"},
		{"min_len", func(v *validate.Validator) *validate.Validator { return v.MinLen("password", "abc", 8) }, "Minimum 8 characters"},
		{"uuid", func(v *validate.Validator) *validate.Validator { return v.UUID("id", "0190a6f07c1e7b3a9d2e4f5a6b7c8d9e") }, "Must be a valid UUID"},
		{"one_of", func(v *validate.Validator) *validate.Validator { return v.OneOf("sex", "x", "male", "female") }, "Must be one of: male, female"},
		{"custom", func(v *validate.Validator) *validate.Validator { return v.Custom("count", true, "Nothing to record") }, "Nothing to record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.apply(&validate.Validator{}).Err()
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.message, ae.Details[0].Message)
		})
	}
}

/*
TestValidator_Passing verifies a clean chain yields nil.
*/
func TestValidator_Passing(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("name", "Dorcus").
		MaxLen("name", "オオクワガタ", 6).
		MinLen("password", "dynastes852", 8).
		UUID("id", "0190A6F0-7C1E-7B3A-9D2E-4F5A6B7C8D9E").
		OneOf("sex", "female", "male", "female").
		Custom("count", false, "unused").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Accumulates keeps every failure in order.
*/
func TestValidator_Accumulates(t *testing.T) {
	err := (&validate.Validator{}).
		Required("username", "").
		MinLen("username", "", 3).
		UUID("id", "nope").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 3)
	assert.Equal(t, []string{"username", "username", "id"},
		[]string{ae.Details[0].Field, ae.Details[1].Field, ae.Details[2].Field})
}

/*
TestStruct reports tag failures under their JSON names.
*/
func TestStruct(t *testing.T) {
	type lineRequest struct {
		Name     string `json:"name" validate:"required,max=10"`
		Interval int    `json:"bottleChangeInterval" validate:"gte=1"`
	}

	require.NoError(t, validate.Struct(lineRequest{Name: "MK", Interval: 3}))

	ae := apperr.As(validate.Struct(lineRequest{Interval: 0}))
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "name", ae.Details[0].Field)
	assert.Equal(t, "This field is required", ae.Details[0].Message)
	assert.Equal(t, "bottleChangeInterval", ae.Details[1].Field)
	assert.Equal(t, "Must be at least 1", ae.Details[1].Message)
}
