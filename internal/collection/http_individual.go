// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/constants"
	requestutil "github.com/taibuivan/beetlekeeper/internal/platform/request"
	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// # Request Payloads

type individualIDsRequest struct {
	IndividualIDs []int64 `json:"individualIds" validate:"required,min=1"`
}

type weightRequest struct {
	Date   lineage.Date    `json:"date"`
	Weight decimal.Decimal `json:"weight"`
}

type historyRequest struct {
	Entries []lineage.WeightEntry `json:"entries"`
}

// batchEntry is the wire form of one [lineage.Update], tagged by kind.
type batchEntry struct {
	Kind         lineage.UpdateKind  `json:"kind"`
	IndividualID int64               `json:"individualId"`
	Date         lineage.Date        `json:"date"`
	Weight       decimal.NullDecimal `json:"weight"`
	HeadWidth    decimal.NullDecimal `json:"headWidth"`
}

type batchRequest struct {
	Updates []batchEntry `json:"updates" validate:"required,min=1,max=500"`
}

type commitRequest struct {
	lineage.BreedingRequest
	Decision lineage.Decision `json:"decision"`
}

type transferRequest struct {
	IndividualIDs []int64 `json:"individualIds" validate:"required,min=1"`
	Name          string  `json:"name"          validate:"required,max=100"`
}

type listingRequest struct {
	LineID        int64   `json:"lineId"        validate:"required,gt=0"`
	IndividualIDs []int64 `json:"individualIds" validate:"required,min=1"`
}

// toUpdate converts the wire form into its typed variant.
func (entry batchEntry) toUpdate(index int) (lineage.Update, error) {
	switch entry.Kind {
	case lineage.KindBottleChange:
		return lineage.BottleChangeUpdate{IndividualID: entry.IndividualID, Date: entry.Date, Weight: entry.Weight, HeadWidth: entry.HeadWidth}, nil
	case lineage.KindPupa:
		return lineage.PupaUpdate{IndividualID: entry.IndividualID, Date: entry.Date}, nil
	case lineage.KindHatch:
		return lineage.HatchUpdate{IndividualID: entry.IndividualID, Date: entry.Date}, nil
	case lineage.KindFeed:
		return lineage.FeedUpdate{IndividualID: entry.IndividualID, Date: entry.Date}, nil
	case lineage.KindLarvaHatch:
		return lineage.LarvaHatchUpdate{IndividualID: entry.IndividualID, Date: entry.Date}, nil
	}
	return nil, validate.RequiredError(fmt.Sprintf("updates[%d].kind", index),
		"Must be one of: bottleChange, pupa, hatch, feed, larvaHatch")
}

// # Individuals

/*
GET /api/v1/collection/lines/{id}/individuals.

Description: Lists the individuals of a line in table order.

Request:
  - sort: string (managementNumber, sex, parentInfo, generation, hatchDate,
    pupaDate, nextBottleChangeDate, headWidth, lastWeight, notes)
  - direction: asc | desc

Response:
  - 200: []Individual
  - 404: Line not found
*/
func (handler *Handler) listIndividuals(writer http.ResponseWriter, request *http.Request) {
	owner, lineID, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	key, direction, err := lineage.ParseSort(query.Get("sort"), query.Get("direction"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rows, err := handler.service.ListIndividuals(request.Context(), owner, lineID, key, direction)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if rows == nil {
		rows = []*lineage.Individual{}
	}
	respond.OK(writer, rows)
}

/*
POST /api/v1/collection/lines/{id}/individuals.

Description: Adds a blank individual numbered after the line's highest number.

Response:
  - 201: Individual
*/
func (handler *Handler) addIndividual(writer http.ResponseWriter, request *http.Request) {
	owner, lineID, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	individual, err := handler.service.AddIndividual(request.Context(), owner, lineID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, individual)
}

// GET /api/v1/collection/individuals/{id}.
func (handler *Handler) getIndividual(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	individual, err := handler.service.Individual(request.Context(), owner, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, individual)
}

/*
PATCH /api/v1/collection/individuals/{id}.

Request (Body):
  - IndividualPatch: only the present fields change

Response:
  - 200: Individual
  - 400: Validation errors
*/
func (handler *Handler) updateIndividual(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch lineage.IndividualPatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	individual, err := handler.service.UpdateIndividual(request.Context(), owner, id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, individual)
}

// DELETE /api/v1/collection/individuals/{id}.
func (handler *Handler) deleteIndividual(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteIndividuals(request.Context(), owner, []int64{id}); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/collection/individuals/bulk-delete.
func (handler *Handler) deleteIndividuals(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input individualIDsRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteIndividuals(request.Context(), owner, input.IndividualIDs); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Weights

/*
POST /api/v1/collection/individuals/{id}/weights.

Description: Records a weighing; the next bottle change is rescheduled from the
latest entry.

Request (Body):
  - date: YYYY-MM-DD
  - weight: decimal grams

Response:
  - 201: Individual
*/
func (handler *Handler) recordWeight(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input weightRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	individual, err := handler.service.RecordWeight(request.Context(), owner, id, input.Date, input.Weight)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, individual)
}

// PUT /api/v1/collection/individuals/{id}/weights.
func (handler *Handler) replaceHistory(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input historyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	individual, err := handler.service.ReplaceHistory(request.Context(), owner, id, input.Entries)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, individual)
}

// DELETE /api/v1/collection/individuals/{id}/weights/{entryID}.
func (handler *Handler) removeWeight(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entryID, err := requestutil.Int64(request, "entryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	individual, err := handler.service.RemoveWeightEntry(request.Context(), owner, id, entryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, individual)
}

/*
POST /api/v1/collection/individuals/{id}/images.

Description: Uploads one photo (multipart field "image", at most 10 MiB).

Response:
  - 201: Individual with the new image URL
  - 400: Missing file or unsupported type
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	owner, id, err := ownerAndID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Image must be a multipart upload of at most 10 MiB"))
		return
	}

	file, header, err := request.FormFile("image")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("image", "This field is required"))
		return
	}
	defer file.Close()

	individual, err := handler.service.UploadImage(request.Context(), owner, id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, individual)
}

// # Maintenance and Breeding

/*
POST /api/v1/collection/batch.

Description: Applies maintenance updates to several individuals. Entries that
cannot apply are skipped and reported; the rest still apply.

Request (Body):
  - updates: [{kind, individualId, date, weight?, headWidth?}]

Response:
  - 200: BatchReport
*/
func (handler *Handler) applyBatch(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input batchRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updates := make([]lineage.Update, 0, len(input.Updates))
	for index, entry := range input.Updates {
		update, err := entry.toUpdate(index)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		updates = append(updates, update)
	}

	report, err := handler.service.ApplyBatch(request.Context(), owner, updates)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}

/*
POST /api/v1/collection/breeding/plan.

Description: Resolves the breeding scope and tells the client whether new
species or line names are needed before committing.

Request (Body):
  - males: []int64
  - spawns: [{motherId, count, date}]

Response:
  - 200: Plan
  - 400: Cross-genus parents, wrong sexes, zero offspring
*/
func (handler *Handler) planBreeding(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input lineage.BreedingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := handler.service.PlanBreeding(request.Context(), owner, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plan)
}

/*
POST /api/v1/collection/breeding.

Request (Body):
  - males, spawns: as for the plan
  - decision: {createNewLine, newSpeciesName, newLineName}

Response:
  - 201: BreedingResult
*/
func (handler *Handler) commitBreeding(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.CommitBreeding(request.Context(), owner, input.BreedingRequest, input.Decision)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

// POST /api/v1/collection/transfer.
func (handler *Handler) transfer(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input transferRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.TransferToNewLine(request.Context(), owner, input.IndividualIDs, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

// # Sale Listings

// POST /api/v1/collection/listings/preview.
func (handler *Handler) previewListing(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input listingRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.ComposeSaleListing(request.Context(), owner, input.LineID, input.IndividualIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listing)
}

/*
POST /api/v1/collection/listings.

Description: Publishes the composed listing as a forum post in the sale category.

Response:
  - 201: {postId, listing}
*/
func (handler *Handler) publishListing(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input listingRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, listing, err := handler.service.PublishSaleListing(request.Context(), owner, input.LineID, input.IndividualIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{"postId": postID, "listing": listing})
}
