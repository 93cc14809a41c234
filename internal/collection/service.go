// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/blob"
	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
)

// # Collaborators

// ListingPublisher turns a composed sale listing into a public post.
type ListingPublisher interface {
	PublishListing(context context.Context, authorID string, listing lineage.Listing) (string, error)
}

// # Service Layer

// Service runs engine operations against stored collections.
type Service struct {
	repository Repository
	blobs      blob.Store
	publisher  ListingPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	clock      func() time.Time

	locks sync.Map // owner → *sync.Mutex
}

// NewService constructs a collection [Service]. blobs and publisher may be nil,
// which disables image upload and listing publication respectively.
func NewService(repository Repository, blobs blob.Store, publisher ListingPublisher, recorder *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		blobs:      blobs,
		publisher:  publisher,
		metrics:    recorder,
		logger:     logger,
		clock:      time.Now,
	}
}

// WithClock replaces the time source used for "today" and overdue checks.
func (service *Service) WithClock(clock func() time.Time) *Service {
	service.clock = clock
	return service
}

func (service *Service) today() lineage.Date {
	return lineage.DateOf(service.clock())
}

// lock serialises writers of one owner inside this process.
func (service *Service) lock(owner string) func() {
	value, _ := service.locks.LoadOrStore(owner, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

/*
mutate loads the owner's collection, applies change and saves the result.

Nothing is saved when change fails, so a rejected operation leaves the stored
collection untouched.
*/
func (service *Service) mutate(context context.Context, owner string, event string, change func(*lineage.Tree) (*lineage.Tree, error)) (*lineage.Tree, error) {
	unlock := service.lock(owner)
	defer unlock()

	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return nil, err
	}

	next, err := change(tree)
	if err != nil {
		return nil, err
	}

	if err := service.repository.Save(context, next); err != nil {
		return nil, err
	}

	service.logger.Info(event, slog.String("owner", owner), slog.Int64("seq", next.Seq))
	return next, nil
}

// # Reads

// Tree returns the owner's whole collection.
func (service *Service) Tree(context context.Context, owner string) (*lineage.Tree, error) {
	return service.repository.Load(context, owner)
}

// View returns the nested genus → species → line → individual form.
func (service *Service) View(context context.Context, owner string) ([]lineage.GenusView, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return nil, err
	}
	return lineage.View(tree), nil
}

// Owners lists every owner with a stored collection.
func (service *Service) Owners(context context.Context) ([]string, error) {
	return service.repository.ListOwners(context)
}

// Individual returns one individual of the owner.
func (service *Service) Individual(context context.Context, owner string, id int64) (*lineage.Individual, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return nil, err
	}
	return tree.Individual(id)
}

/*
ListIndividuals returns the individuals of a line in table order.

Parameters:
  - context: context.Context
  - owner: string
  - lineID: int64
  - key: lineage.SortKey
  - direction: lineage.Direction

Returns:
  - []*lineage.Individual: Sorted rows
  - error: NotFound when the line does not exist
*/
func (service *Service) ListIndividuals(context context.Context, owner string, lineID int64, key lineage.SortKey, direction lineage.Direction) ([]*lineage.Individual, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return nil, err
	}
	return tree.SortedLine(lineID, key, direction)
}

// Overdue lists the owner's individuals whose bottle change is past due today.
func (service *Service) Overdue(context context.Context, owner string) ([]lineage.Notice, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return nil, err
	}
	return lineage.Overdue(tree, service.clock()), nil
}

// # Snapshots

// Export returns the persistence form of the owner's collection.
func (service *Service) Export(context context.Context, owner string) (lineage.Snapshot, error) {
	tree, err := service.repository.Load(context, owner)
	if err != nil {
		return lineage.Snapshot{}, err
	}
	return tree.Snapshot(), nil
}

/*
Import replaces the owner's collection with snapshot.

Parameters:
  - context: context.Context
  - owner: string
  - snapshot: lineage.Snapshot (its owner field is ignored)

Returns:
  - lineage.Stats: Row counts of the imported collection
  - error: Integrity or storage failures
*/
func (service *Service) Import(context context.Context, owner string, snapshot lineage.Snapshot) (lineage.Stats, error) {
	snapshot.Owner = owner
	restored, err := lineage.Restore(snapshot)
	if err != nil {
		return lineage.Stats{}, apperr.ValidationError(err.Error())
	}

	next, err := service.mutate(context, owner, "collection_imported", func(*lineage.Tree) (*lineage.Tree, error) {
		return restored, nil
	})
	if err != nil {
		return lineage.Stats{}, err
	}
	return next.Stats(), nil
}

// Reset deletes the owner's collection.
func (service *Service) Reset(context context.Context, owner string) error {
	unlock := service.lock(owner)
	defer unlock()

	if err := service.repository.Delete(context, owner); err != nil {
		return err
	}
	service.logger.Info("collection_reset", slog.String("owner", owner))
	return nil
}
