// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	requestutil "github.com/taibuivan/beetlekeeper/internal/platform/request"
	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
)

// # Handler Implementation

// Handler exposes the signed-in user's collection over REST.
type Handler struct {
	service *Service
}

// NewHandler constructs a collection [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the collection router. Every route requires authentication;
// the owner is always the caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Whole collection
	router.Get("/", handler.view)
	router.Get("/overdue", handler.overdue)
	router.Get("/export", handler.export)
	router.Post("/import", handler.importSnapshot)

	// ## Taxonomy
	router.Post("/genera", handler.addGenus)
	router.Patch("/genera/{id}", handler.renameGenus)
	router.Delete("/genera/{id}", handler.deleteGenus)
	router.Post("/species", handler.addSpecies)
	router.Patch("/species/{id}", handler.renameSpecies)
	router.Delete("/species/{id}", handler.deleteSpecies)
	router.Post("/lines", handler.addLine)
	router.Patch("/lines/{id}", handler.updateLine)
	router.Delete("/lines/{id}", handler.deleteLine)
	router.Put("/lines/{id}/interval", handler.setInterval)
	router.Post("/adopt", handler.adopt)

	// ## Individuals
	router.Get("/lines/{id}/individuals", handler.listIndividuals)
	router.Post("/lines/{id}/individuals", handler.addIndividual)
	router.Post("/individuals/bulk-delete", handler.deleteIndividuals)
	router.Route("/individuals/{id}", func(individual chi.Router) {
		individual.Get("/", handler.getIndividual)
		individual.Patch("/", handler.updateIndividual)
		individual.Delete("/", handler.deleteIndividual)
		individual.Post("/weights", handler.recordWeight)
		individual.Put("/weights", handler.replaceHistory)
		individual.Delete("/weights/{entryID}", handler.removeWeight)
		individual.Post("/images", handler.uploadImage)
	})

	// ## Maintenance and breeding
	router.Post("/batch", handler.applyBatch)
	router.Post("/breeding/plan", handler.planBreeding)
	router.Post("/breeding", handler.commitBreeding)
	router.Post("/transfer", handler.transfer)

	// ## Sale listings
	router.Post("/listings/preview", handler.previewListing)
	router.Post("/listings", handler.publishListing)

	return router
}

// # Whole Collection

/*
GET /api/v1/collection.

Description: Returns the caller's collection as nested genera.

Response:
  - 200: []GenusView
  - 401: ErrUnauthorized
*/
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.View(request.Context(), owner)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
GET /api/v1/collection/overdue.

Description: Lists individuals whose bottle change date has passed.

Response:
  - 200: []Notice (oldest first)
*/
func (handler *Handler) overdue(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notices, err := handler.service.Overdue(request.Context(), owner)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if notices == nil {
		notices = []lineage.Notice{}
	}
	respond.OK(writer, notices)
}

// GET /api/v1/collection/export.
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.service.Export(request.Context(), owner)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot)
}

/*
POST /api/v1/collection/import.

Description: Replaces the caller's collection with an exported snapshot.

Request (Body):
  - Snapshot JSON object

Response:
  - 200: Stats: Imported row counts
  - 400: Invalid JSON or broken references
*/
func (handler *Handler) importSnapshot(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var snapshot lineage.Snapshot
	if err := requestutil.DecodeJSON(request, &snapshot); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.Import(request.Context(), owner, snapshot)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// # Taxonomy

type nameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type speciesRequest struct {
	GenusID int64  `json:"genusId" validate:"required,gt=0"`
	Name    string `json:"name"    validate:"required,max=100"`
}

type lineRequest struct {
	SpeciesID            int64  `json:"speciesId"            validate:"required,gt=0"`
	Name                 string `json:"name"                 validate:"required,max=100"`
	BottleChangeInterval int    `json:"bottleChangeInterval" validate:"omitempty,min=1,max=120"`
}

type intervalRequest struct {
	Months int `json:"months" validate:"required,min=1,max=120"`
}

type adoptRequest struct {
	Genus      string `json:"genus"      validate:"required,max=100"`
	Species    string `json:"species"    validate:"required,max=100"`
	Subspecies string `json:"subspecies" validate:"required,max=100"`
}

/*
POST /api/v1/collection/genera.

Request (Body):
  - name: string

Response:
  - 201: Genus
  - 400: Validation errors
*/
func (handler *Handler) addGenus(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input nameRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genus, err := handler.service.AddGenus(request.Context(), owner, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genus)
}

// PATCH /api/v1/collection/genera/{id}.
func (handler *Handler) renameGenus(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input nameRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genus, err := handler.service.RenameGenus(request.Context(), owner, id, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, genus)
}

/*
DELETE /api/v1/collection/genera/{id}.

Description: Deletes the genus with all of its species, lines and individuals.

Response:
  - 204: Deleted
  - 404: Genus not found
*/
func (handler *Handler) deleteGenus(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteGenus(request.Context(), owner, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/collection/species.
func (handler *Handler) addSpecies(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input speciesRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	species, err := handler.service.AddSpecies(request.Context(), owner, input.GenusID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, species)
}

// PATCH /api/v1/collection/species/{id}.
func (handler *Handler) renameSpecies(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input nameRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	species, err := handler.service.RenameSpecies(request.Context(), owner, id, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, species)
}

// DELETE /api/v1/collection/species/{id}.
func (handler *Handler) deleteSpecies(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteSpecies(request.Context(), owner, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/collection/lines.

Request (Body):
  - speciesId: int64
  - name: string
  - bottleChangeInterval: int (months, optional, default 3)

Response:
  - 201: Line
*/
func (handler *Handler) addLine(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input lineRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	line, err := handler.service.AddLine(request.Context(), owner, input.SpeciesID, input.Name, input.BottleChangeInterval)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, line)
}

// PATCH /api/v1/collection/lines/{id}.
func (handler *Handler) updateLine(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch lineage.LinePatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	line, err := handler.service.UpdateLine(request.Context(), owner, id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, line)
}

// DELETE /api/v1/collection/lines/{id}.
func (handler *Handler) deleteLine(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteLine(request.Context(), owner, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
PUT /api/v1/collection/lines/{id}/interval.

Description: Changes the bottle change interval and reschedules every
individual of the line from its latest weighing.

Request (Body):
  - months: int (1-120)

Response:
  - 200: Line
*/
func (handler *Handler) setInterval(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input intervalRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	line, err := handler.service.SetLineInterval(request.Context(), owner, id, input.Months)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, line)
}

/*
POST /api/v1/collection/adopt.

Description: Adds a reference catalog entry to the collection, reusing any
genus, species or line with the same name.

Request (Body):
  - genus, species, subspecies: string

Response:
  - 200: Line: The matched or created line
*/
func (handler *Handler) adopt(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input adoptRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	line, err := handler.service.AdoptTaxonomy(request.Context(), owner, input.Genus, input.Species, input.Subspecies)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, line)
}

// # Helpers

// ownerAndID resolves the caller and the numeric {id} path parameter.
func ownerAndID(request *http.Request) (string, int64, error) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", 0, err
	}
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		return "", 0, err
	}
	return owner, id, nil
}
