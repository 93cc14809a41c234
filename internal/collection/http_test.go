// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/collection"
	"github.com/taibuivan/beetlekeeper/internal/platform/ctxutil"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
)

// serve runs one request through the collection router, signed in as owner
// unless anonymous is set.
func serve(h *harness, method, target, body string, anonymous bool) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return serveRequest(h, request, anonymous)
}

func serveRequest(h *harness, request *http.Request, anonymous bool) *httptest.ResponseRecorder {
	if !anonymous {
		claims := &sec.AuthClaims{UserID: owner, Username: "keeper", Role: string(sec.RoleMember)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	collection.NewHandler(h.service).Routes().ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details []struct {
		Field string `json:"field"`
	} `json:"details"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return body
}

/*
TestHandler_Taxonomy covers status codes of the taxonomy endpoints.
*/
func TestHandler_Taxonomy(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name      string
		method    string
		target    string
		body      string
		anonymous bool
		status    int
		code      string
	}{
		{"anonymous", http.MethodGet, "/", "", true, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"create_genus", http.MethodPost, "/genera", `{"name":"Dorcus"}`, false, http.StatusCreated, ""},
		{"blank_genus", http.MethodPost, "/genera", `{"name":""}`, false, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"broken_json", http.MethodPost, "/genera", `{"name":`, false, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad_id", http.MethodPatch, "/genera/abc", `{"name":"X"}`, false, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown_genus", http.MethodDelete, "/genera/99", "", false, http.StatusNotFound, "NOT_FOUND"},
		{"adopt", http.MethodPost, "/adopt", `{"genus":"Dorcus","species":"hopei","subspecies":"MK"}`, false, http.StatusOK, ""},
		{"bad_interval", http.MethodPut, "/lines/3/interval", `{"months":0}`, false, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"view", http.MethodGet, "/", "", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(h, tt.method, tt.target, tt.body, tt.anonymous)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeEnvelope(t, recorder).Code)
			}
		})
	}
}

/*
TestHandler_IndividualsAndBatch walks a line from creation to a batch update.
*/
func TestHandler_IndividualsAndBatch(t *testing.T) {
	h := newHarness(t)
	line := h.line(t, "MK")
	target := "/lines/" + jsonNumber(line.ID) + "/individuals"

	recorder := serve(h, http.MethodPost, target, "", false)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		ID               int64  `json:"id"`
		ManagementNumber string `json:"managementNumber"`
		ImageURLs        []any  `json:"imageUrls"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &created))
	assert.Equal(t, "1", created.ManagementNumber)
	assert.NotNil(t, created.ImageURLs)

	recorder = serve(h, http.MethodGet, target+"?sort=weight", "", false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(h, http.MethodGet, target+"?sort=hatchDate&direction=desc", "", false)
	assert.Equal(t, http.StatusOK, recorder.Code)

	batch := `{"updates":[
		{"kind":"bottleChange","individualId":` + jsonNumber(created.ID) + `,"date":"2024-01-15","weight":"21.5"},
		{"kind":"pupa","individualId":999,"date":"2024-02-01"}
	]}`
	recorder = serve(h, http.MethodPost, "/batch", batch, false)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var report struct {
		Applied []int64 `json:"applied"`
		Skipped []struct {
			IndividualID int64  `json:"individualId"`
			Kind         string `json:"kind"`
			Reason       string `json:"reason"`
		} `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &report))
	assert.Equal(t, []int64{created.ID}, report.Applied)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "pupa", report.Skipped[0].Kind)

	recorder = serve(h, http.MethodPost, "/batch", `{"updates":[{"kind":"molt","individualId":1}]}`, false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "updates[0].kind", decodeEnvelope(t, recorder).Details[0].Field)

	recorder = serve(h, http.MethodGet, "/individuals/"+jsonNumber(created.ID), "", false)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"nextBottleChangeDate":"2024-04-15"`)
}

/*
TestHandler_UploadImage accepts a multipart image.
*/
func TestHandler_UploadImage(t *testing.T) {
	h := newHarness(t)
	line := h.line(t, "MK")
	individual := h.individual(t, line.ID, "male")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="male.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/individuals/"+jsonNumber(individual.ID)+"/images", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())

	recorder := serveRequest(h, request, false)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "/media/collections/owner-1/")

	recorder = serve(h, http.MethodPost, "/individuals/"+jsonNumber(individual.ID)+"/images", "{}", false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func jsonNumber(id int64) string {
	encoded, _ := json.Marshal(id)
	return string(encoded)
}
