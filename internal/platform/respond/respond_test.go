// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/ctxutil"
	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
	"github.com/taibuivan/beetlekeeper/pkg/pagination"
)

/*
TestError verifies status, envelope and logging for each kind of failure.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
		logged  bool
	}{
		{"not_found", apperr.NotFound("Species"), http.StatusNotFound, "NOT_FOUND", "Species not found", false},
		{"wrapped_validation", fmt.Errorf("import: %w", apperr.ValidationError("bad tree")), http.StatusBadRequest, "VALIDATION_ERROR", "bad tree", false},
		{"plain_error", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", true},
		{"unavailable", apperr.ServiceUnavailable("Image storage is disabled"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Image storage is disabled", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))

			request := httptest.NewRequest(http.MethodGet, "/api/v1/collection", nil)
			request = request.WithContext(ctxutil.WithLogger(ctxutil.WithRequestID(request.Context(), "req-7"), logger))
			recorder := httptest.NewRecorder()

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			var body respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Error)

			if tt.logged {
				assert.Contains(t, logs.String(), `"request_id":"req-7"`)
				assert.NotContains(t, recorder.Body.String(), "disk full")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

/*
TestSuccessEnvelopes verifies the data and meta wrappers.
*/
func TestSuccessEnvelopes(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"name": "Dorcus"})
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"name":"Dorcus"}}`, recorder.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	recorder = httptest.NewRecorder()
	respond.Paginated(recorder, []int{1, 2}, pagination.NewMeta(1, 2, 5))
	var page struct {
		Data []int          `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &page))
	assert.Equal(t, []int{1, 2}, page.Data)
	assert.EqualValues(t, 5, page.Meta["total"])

	recorder = httptest.NewRecorder()
	respond.NoContent(recorder)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}
