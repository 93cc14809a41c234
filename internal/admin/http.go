// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/beetlekeeper/internal/platform/middleware"
	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
)

// Handler exposes the admin views.
type Handler struct {
	service *Service
}

// NewHandler constructs an admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the admin router. Every route requires the admin role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Get("/overview", handler.overview)
	router.Get("/taxonomy", handler.taxonomy)
	return router
}

/*
GET /api/v1/admin/overview.

Response:
  - 200: []MemberCollection
  - 401/403: Anonymous or not an administrator
*/
func (handler *Handler) overview(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.service.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

// GET /api/v1/admin/taxonomy.
func (handler *Handler) taxonomy(writer http.ResponseWriter, request *http.Request) {
	rollup, err := handler.service.TaxonomyRollup(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rollup)
}
