// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/admin"
	"github.com/taibuivan/beetlekeeper/internal/api"
	"github.com/taibuivan/beetlekeeper/internal/collection"
	"github.com/taibuivan/beetlekeeper/internal/forum"
	"github.com/taibuivan/beetlekeeper/internal/messaging"
	"github.com/taibuivan/beetlekeeper/internal/platform/config"
	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
	"github.com/taibuivan/beetlekeeper/internal/taxonomy"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
)

// stubVerifier accepts "member" and "admin" as bearer tokens.
type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	switch token {
	case "member":
		return &sec.AuthClaims{UserID: "u-member", Role: string(sec.RoleMember)}, nil
	case "admin":
		return &sec.AuthClaims{UserID: "u-admin", Role: string(sec.RoleAdmin)}, nil
	}
	return nil, errors.New("invalid token")
}

func newServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	media := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, "file:"+request.URL.Path)
	})

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "development"}, logger, stubVerifier{}, recorder, api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Metrics:     metrics.Handler(registry),
		Media:       media,
		MediaPrefix: "/media",
		Auth:        auth.NewHandler(nil, false),
		Collection:  collection.NewHandler(nil),
		Taxonomy:    taxonomy.NewHandler(nil),
		Forum:       forum.NewHandler(nil),
		Messaging:   messaging.NewHandler(nil),
		Admin:       admin.NewHandler(nil),
	})
	return server.Handler()
}

func get(handler http.Handler, target, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_Routing verifies the infrastructure endpoints and the auth gates
in front of the member-only route groups.
*/
func TestServer_Routing(t *testing.T) {
	handler := newServer(t, api.HealthDependencies{})

	tests := []struct {
		name   string
		target string
		token  string
		want   int
	}{
		{"health", "/health", "", http.StatusOK},
		{"ready_without_checks", "/ready", "", http.StatusOK},
		{"collection_anonymous", "/api/v1/collection/", "", http.StatusUnauthorized},
		{"messages_anonymous", "/api/v1/messages/", "", http.StatusUnauthorized},
		{"admin_as_member", "/api/v1/admin/overview", "member", http.StatusForbidden},
		{"unknown_route", "/api/v1/nowhere", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(handler, tt.target, tt.token).Code)
		})
	}

	media := get(handler, "/media/u-1/beetle.jpg", "")
	require.Equal(t, http.StatusOK, media.Code)
	assert.Equal(t, "file:/u-1/beetle.jpg", media.Body.String())

	exposition := get(handler, "/metrics", "")
	require.Equal(t, http.StatusOK, exposition.Code)
	assert.True(t, strings.Contains(exposition.Body.String(), "beetlekeeper_http_requests_total"))
}

/*
TestReadiness verifies that one failing dependency degrades the probe.
*/
func TestReadiness(t *testing.T) {
	handler := newServer(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("redis down") },
	})

	recorder := get(handler, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), "redis down")
}
