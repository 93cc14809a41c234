// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
)

const maxSearchResults = 50

// Handler exposes the catalog.
type Handler struct {
	catalog *Catalog
}

// NewHandler constructs a catalog [Handler].
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Routes returns the public catalog router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Get("/search", handler.search)
	return router
}

// GET /api/v1/taxonomy.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.catalog.Genera())
}

/*
GET /api/v1/taxonomy/search.

Request:
  - q: string (substring of a subspecies name)
  - limit: int (default and maximum 50)

Response:
  - 200: []Entry
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	limit := maxSearchResults
	if raw := query.Get("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value < maxSearchResults {
			limit = value
		}
	}

	respond.OK(writer, handler.catalog.Search(query.Get("q"), limit))
}
