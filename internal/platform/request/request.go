// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads inputs out of an *http.Request: JSON bodies, chi
URL parameters and the authenticated caller. Every failure is already an
[apperr.AppError] so handlers can pass it straight to respond.Error.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/ctxutil"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// MaxBodyBytes caps JSON bodies. Collection imports are the largest payloads.
const MaxBodyBytes = 8 << 20

// # Body

// DecodeJSON decodes one JSON document into target.
// Malformed, oversized or empty bodies yield validate.ErrInvalidJSON.
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}
	decoder := json.NewDecoder(io.LimitReader(request.Body, MaxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeValid decodes like [DecodeJSON], then runs the target's `validate` tags.

Returns:
  - error: validate.ErrInvalidJSON, a VALIDATION_ERROR with field details, or nil
*/
func DecodeValid(request *http.Request, target any) error {
	if err := DecodeJSON(request, target); err != nil {
		return err
	}
	return validate.Struct(target)
}

// # URL Parameters

// Param returns the chi URL parameter name, "" when absent.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Int64 parses a positive integer URL parameter such as a row id.
func Int64(request *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(Param(request, name), 10, 64)
	if err != nil || value < 1 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}

// # Caller

// RequiredClaims returns the caller's claims or UNAUTHORIZED.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	if claims := ctxutil.AuthUser(request.Context()); claims != nil {
		return claims, nil
	}
	return nil, apperr.Unauthorized("Authentication required")
}

// RequiredUserID is [RequiredClaims] reduced to the user id.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
