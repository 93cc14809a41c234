// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/blob"
	"github.com/taibuivan/beetlekeeper/pkg/slug"
	"github.com/taibuivan/beetlekeeper/pkg/uuid"
)

// # Individuals

// AddIndividual creates a blank individual numbered after the line's highest number.
func (service *Service) AddIndividual(context context.Context, owner string, lineID int64) (*lineage.Individual, error) {
	var id int64
	tree, err := service.mutate(context, owner, "individual_created", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, created, err := lineage.AddIndividual(tree, lineID)
		id = created
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return tree.Individual(id)
}

// UpdateIndividual applies a patch to one individual.
func (service *Service) UpdateIndividual(context context.Context, owner string, id int64, patch lineage.IndividualPatch) (*lineage.Individual, error) {
	tree, err := service.mutate(context, owner, "individual_updated", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.UpdateIndividual(tree, id, patch)
	})
	if err != nil {
		return nil, err
	}
	return tree.Individual(id)
}

// DeleteIndividuals removes individuals. Unknown ids reject the whole call.
func (service *Service) DeleteIndividuals(context context.Context, owner string, ids []int64) error {
	_, err := service.mutate(context, owner, "individuals_deleted", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.DeleteIndividuals(tree, ids)
	})
	return err
}

// # Weights

// RecordWeight appends a weighing and reschedules the next bottle change.
func (service *Service) RecordWeight(context context.Context, owner string, id int64, date lineage.Date, weight decimal.Decimal) (*lineage.Individual, error) {
	tree, err := service.mutate(context, owner, "weight_recorded", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, _, err := lineage.RecordWeight(tree, id, date, weight)
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return tree.Individual(id)
}

// ReplaceHistory overwrites the weight history of one individual.
func (service *Service) ReplaceHistory(context context.Context, owner string, id int64, entries []lineage.WeightEntry) (*lineage.Individual, error) {
	tree, err := service.mutate(context, owner, "weight_history_replaced", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.ReplaceHistory(tree, id, entries)
	})
	if err != nil {
		return nil, err
	}
	return tree.Individual(id)
}

// RemoveWeightEntry deletes one history entry and reschedules.
func (service *Service) RemoveWeightEntry(context context.Context, owner string, id, entryID int64) (*lineage.Individual, error) {
	tree, err := service.mutate(context, owner, "weight_removed", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.RemoveWeightEntry(tree, id, entryID)
	})
	if err != nil {
		return nil, err
	}
	return tree.Individual(id)
}

// # Batch

// errNothingApplied short-circuits the save of a batch that changed nothing.
var errNothingApplied = errors.New("collection_batch_empty")

/*
ApplyBatch applies maintenance updates to several individuals.

Skipped entries do not fail the call; they are reported. The collection is
saved whenever at least one entry applied.

Parameters:
  - context: context.Context
  - owner: string
  - updates: []lineage.Update

Returns:
  - lineage.BatchReport: Applied and skipped entries
  - error: Storage failures
*/
func (service *Service) ApplyBatch(context context.Context, owner string, updates []lineage.Update) (lineage.BatchReport, error) {
	var report lineage.BatchReport
	_, err := service.mutate(context, owner, "batch_applied", func(tree *lineage.Tree) (*lineage.Tree, error) {
		var next *lineage.Tree
		next, report = lineage.ApplyBatch(tree, updates)
		if len(report.Applied) == 0 {
			return nil, errNothingApplied
		}
		return next, nil
	})
	if err != nil && !errors.Is(err, errNothingApplied) {
		return lineage.BatchReport{}, err
	}

	remaining := map[lineage.UpdateKind]int{}
	for _, update := range updates {
		remaining[update.Kind()]++
	}
	for _, skipped := range report.Skipped {
		remaining[skipped.Kind]--
		service.metrics.Batch(string(skipped.Kind), false)
	}
	for kind, applied := range remaining {
		for range applied {
			service.metrics.Batch(string(kind), true)
		}
	}

	if len(report.Skipped) > 0 {
		service.logger.Info("batch_entries_skipped",
			slog.String("owner", owner),
			slog.Int("applied", len(report.Applied)),
			slog.Int("skipped", len(report.Skipped)),
		)
	}
	return report, nil
}

// # Breeding

// PlanBreeding resolves the scope of a breeding request and the names to ask for.
func (service *Service) PlanBreeding(context context.Context, owner string, request lineage.BreedingRequest) (lineage.Plan, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return lineage.Plan{}, err
	}
	return lineage.PlanBreeding(tree, request)
}

/*
CommitBreeding creates the offspring of a breeding request.

Parameters:
  - context: context.Context
  - owner: string
  - request: lineage.BreedingRequest
  - decision: lineage.Decision (answers to the plan)

Returns:
  - lineage.BreedingResult: Created ids
  - error: ValidationError or NotFound; nothing is saved on error
*/
func (service *Service) CommitBreeding(context context.Context, owner string, request lineage.BreedingRequest, decision lineage.Decision) (lineage.BreedingResult, error) {
	var result lineage.BreedingResult
	_, err := service.mutate(context, owner, "breeding_committed", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, committed, err := lineage.CommitBreeding(tree, request, decision)
		result = committed
		return next, err
	})
	if err != nil {
		return lineage.BreedingResult{}, err
	}

	service.metrics.Breeding(string(result.Scope), len(result.OffspringIDs))
	return result, nil
}

// TransferToNewLine moves individuals of one species into a new line, stamping today's date.
func (service *Service) TransferToNewLine(context context.Context, owner string, ids []int64, name string) (lineage.TransferResult, error) {
	var result lineage.TransferResult
	today := service.today()
	_, err := service.mutate(context, owner, "individuals_transferred", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, transferred, err := lineage.TransferToNewLine(tree, ids, name, today)
		result = transferred
		return next, err
	})
	if err != nil {
		return lineage.TransferResult{}, err
	}
	return result, nil
}

// # Images

/*
UploadImage stores a photo of an individual and appends its public URL.

Parameters:
  - context: context.Context
  - owner: string
  - id: int64
  - filename: string (original name, used for the key)
  - contentType: string
  - body: io.Reader

Returns:
  - *lineage.Individual: The individual with the new image
  - error: ValidationError for unsupported types, NotFound, storage failures
*/
func (service *Service) UploadImage(context context.Context, owner string, id int64, filename, contentType string, body io.Reader) (*lineage.Individual, error) {
	if service.blobs == nil {
		return nil, apperr.ServiceUnavailable("Image storage is not configured")
	}

	extension, ok := blob.ImageExtension(contentType)
	if !ok {
		return nil, apperr.ValidationError("Only JPEG, PNG, GIF and WebP images are accepted")
	}

	// Fail fast before uploading anything for an unknown individual.
	if _, err := service.Individual(context, owner, id); err != nil {
		return nil, err
	}

	key := ImageKey(owner, id, filename, extension)
	info, err := service.blobs.Put(context, key, body, blob.PutOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("collection_image_upload_failed: %w", err)
	}

	tree, err := service.mutate(context, owner, "image_attached", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.AppendImage(tree, id, info.URL)
	})
	if err != nil {
		// The individual vanished meanwhile; drop the orphaned object.
		if _, deleteErr := service.blobs.Delete(context, key); deleteErr != nil {
			service.logger.Warn("image_cleanup_failed", slog.String("key", key), slog.Any("error", deleteErr))
		}
		return nil, err
	}
	return tree.Individual(id)
}

// ImageKey builds collections/<owner>/<individual>/<uuid>-<slug><ext>.
func ImageKey(owner string, id int64, filename, extension string) string {
	return fmt.Sprintf("collections/%s/%d/%s-%s%s", owner, id, uuid.New(), slug.FileBase(filename), extension)
}

// # Sale Listings

// ComposeSaleListing renders a sale post for individuals of one line.
func (service *Service) ComposeSaleListing(context context.Context, owner string, lineID int64, ids []int64) (lineage.Listing, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return lineage.Listing{}, err
	}
	return lineage.ComposeSaleListing(tree, lineID, ids)
}

/*
PublishSaleListing composes a listing and posts it to the forum.

Parameters:
  - context: context.Context
  - owner: string (also the post author)
  - lineID: int64
  - ids: []int64

Returns:
  - string: The created post id
  - lineage.Listing: The published text
  - error: Composition or publication failures
*/
func (service *Service) PublishSaleListing(context context.Context, owner string, lineID int64, ids []int64) (string, lineage.Listing, error) {
	if service.publisher == nil {
		return "", lineage.Listing{}, apperr.ServiceUnavailable("Listing publication is not configured")
	}

	listing, err := service.ComposeSaleListing(context, owner, lineID, ids)
	if err != nil {
		return "", lineage.Listing{}, err
	}

	postID, err := service.publisher.PublishListing(context, owner, listing)
	if err != nil {
		return "", lineage.Listing{}, err
	}

	service.logger.Info("sale_listing_published",
		slog.String("owner", owner),
		slog.String("post_id", postID),
		slog.Int("individuals", len(ids)),
	)
	return postID, listing, nil
}
