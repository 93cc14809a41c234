// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package forum_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/forum"
	"github.com/taibuivan/beetlekeeper/internal/platform/ctxutil"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
)

func serve(router http.Handler, method, target, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Posts covers the public and signed-in endpoints.
*/
func TestHandler_Posts(t *testing.T) {
	router := forum.NewHandler(newService(nil)).Routes()
	memberClaims := &sec.AuthClaims{UserID: memberID, Username: "member1", Role: string(sec.RoleMember)}
	adminClaims := &sec.AuthClaims{UserID: adminID, Username: "admin1", Role: string(sec.RoleAdmin)}

	tests := []struct {
		name   string
		method string
		target string
		body   string
		claims *sec.AuthClaims
		status int
	}{
		{"anonymous_write", http.MethodPost, "/posts", `{"category":"sale","title":"t","content":"c"}`, nil, http.StatusUnauthorized},
		{"member_notice", http.MethodPost, "/posts", `{"category":"notice","title":"t","content":"c"}`, memberClaims, http.StatusForbidden},
		{"missing_title", http.MethodPost, "/posts", `{"category":"sale","content":"c"}`, memberClaims, http.StatusBadRequest},
		{"admin_notice", http.MethodPost, "/posts", `{"category":"notice","title":"Rules","content":"Be kind"}`, adminClaims, http.StatusCreated},
		{"member_sale", http.MethodPost, "/posts", `{"category":"sale","title":"MK pair","content":"CBF2"}`, memberClaims, http.StatusCreated},
		{"anonymous_read", http.MethodGet, "/posts?category=all&limit=1", "", nil, http.StatusOK},
		{"bad_category", http.MethodGet, "/posts?category=gossip", "", nil, http.StatusBadRequest},
		{"unknown_post", http.MethodGet, "/posts/nope", "", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, tt.method, tt.target, tt.body, tt.claims)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}

	recorder := serve(router, http.MethodGet, "/posts?limit=1", "", nil)
	var page struct {
		Data []forum.Post `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Rules", page.Data[0].Title)
	assert.Equal(t, 2, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

/*
TestHandler_Comments adds and removes a comment through the router.
*/
func TestHandler_Comments(t *testing.T) {
	router := forum.NewHandler(newService(nil)).Routes()
	claims := &sec.AuthClaims{UserID: memberID, Username: "member1", Role: string(sec.RoleMember)}

	recorder := serve(router, http.MethodPost, "/posts", `{"category":"log","title":"Day 1","content":"Larvae in"}`, claims)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var created struct {
		Data forum.Post `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = serve(router, http.MethodPost, "/posts/"+created.Data.ID+"/comments", `{"content":"good luck"}`, claims)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var comment struct {
		Data forum.Comment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &comment))

	recorder = serve(router, http.MethodGet, "/posts/"+created.Data.ID, "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "good luck")

	recorder = serve(router, http.MethodDelete, "/posts/"+created.Data.ID+"/comments/"+comment.Data.ID, "", claims)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
