// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

// # Batch Updates

// UpdateKind names a batch update variant on the wire.
type UpdateKind string

const (
	KindBottleChange UpdateKind = "bottleChange"
	KindPupa         UpdateKind = "pupa"
	KindHatch        UpdateKind = "hatch"
	KindFeed         UpdateKind = "feed"
	KindLarvaHatch   UpdateKind = "larvaHatch"
)

// Update is one entry of a batch. The set of variants is closed.
type Update interface {
	Target() int64
	Kind() UpdateKind
	sealed()
}

// BottleChangeUpdate records a bottle change: an optional weighing and an
// optional head width measurement.
type BottleChangeUpdate struct {
	IndividualID int64
	Date         Date
	Weight       decimal.NullDecimal
	HeadWidth    decimal.NullDecimal
}

// PupaUpdate sets the pupation date.
type PupaUpdate struct {
	IndividualID int64
	Date         Date
}

// HatchUpdate sets the adult eclosion date.
type HatchUpdate struct {
	IndividualID int64
	Date         Date
}

// FeedUpdate sets the date the adult started feeding.
type FeedUpdate struct {
	IndividualID int64
	Date         Date
}

// LarvaHatchUpdate sets the larva hatch date.
type LarvaHatchUpdate struct {
	IndividualID int64
	Date         Date
}

func (update BottleChangeUpdate) Target() int64 { return update.IndividualID }
func (update PupaUpdate) Target() int64         { return update.IndividualID }
func (update HatchUpdate) Target() int64        { return update.IndividualID }
func (update FeedUpdate) Target() int64         { return update.IndividualID }
func (update LarvaHatchUpdate) Target() int64   { return update.IndividualID }

func (BottleChangeUpdate) Kind() UpdateKind { return KindBottleChange }
func (PupaUpdate) Kind() UpdateKind         { return KindPupa }
func (HatchUpdate) Kind() UpdateKind        { return KindHatch }
func (FeedUpdate) Kind() UpdateKind         { return KindFeed }
func (LarvaHatchUpdate) Kind() UpdateKind   { return KindLarvaHatch }

func (BottleChangeUpdate) sealed() {}
func (PupaUpdate) sealed()         {}
func (HatchUpdate) sealed()        {}
func (FeedUpdate) sealed()         {}
func (LarvaHatchUpdate) sealed()   {}

// Skipped is a batch entry that was not applied.
type Skipped struct {
	IndividualID int64      `json:"individualId"`
	Kind         UpdateKind `json:"kind"`
	Err          error      `json:"-"`
	Reason       string     `json:"reason"`
}

// BatchReport lists applied and skipped entries in input order.
type BatchReport struct {
	Applied []int64   `json:"applied"`
	Skipped []Skipped `json:"skipped"`
}

/*
ApplyBatch applies each update independently. An entry for an unknown
individual, or with invalid values, is skipped and reported; the other entries
still apply. Bottle changes with a weight reschedule the individual.

Parameters:
  - tree: *Tree
  - updates: []Update

Returns:
  - *Tree: The updated collection (a new tree even when everything was skipped)
  - BatchReport: Per-entry outcome
*/
func ApplyBatch(tree *Tree, updates []Update) (*Tree, BatchReport) {
	next := tree.mutable()
	report := BatchReport{Applied: []int64{}, Skipped: []Skipped{}}

	for _, update := range updates {
		if err := next.apply(update); err != nil {
			report.Skipped = append(report.Skipped, Skipped{
				IndividualID: update.Target(),
				Kind:         update.Kind(),
				Err:          err,
				Reason:       err.Error(),
			})
			continue
		}
		report.Applied = append(report.Applied, update.Target())
	}
	return next, report
}

// apply validates one entry and writes it to a mutable tree.
func (tree *Tree) apply(update Update) error {
	current, err := tree.individual(update.Target())
	if err != nil {
		return err
	}

	switch update := update.(type) {
	case BottleChangeUpdate:
		if update.Weight.Valid {
			if err := checkWeight(update.Date, update.Weight.Decimal); err != nil {
				return err
			}
		}
		if update.HeadWidth.Valid && update.HeadWidth.Decimal.IsNegative() {
			return apperr.ValidationError("Head width must not be negative")
		}
		if !update.Weight.Valid && !update.HeadWidth.Valid {
			return apperr.ValidationError("Bottle change needs a weight or a head width")
		}

		if update.HeadWidth.Valid {
			updated := current.clone()
			updated.HeadWidth = update.HeadWidth
			tree.Individuals[updated.ID] = updated
			current = updated
		}
		if update.Weight.Valid {
			tree.appendWeight(current, update.Date, update.Weight.Decimal)
		}
		return nil

	case PupaUpdate:
		return tree.setDate(current, update.Date, func(individual *Individual, date Date) { individual.PupaDate = date })
	case HatchUpdate:
		return tree.setDate(current, update.Date, func(individual *Individual, date Date) { individual.HatchDate = date })
	case FeedUpdate:
		return tree.setDate(current, update.Date, func(individual *Individual, date Date) { individual.FeedingStartDate = date })
	case LarvaHatchUpdate:
		return tree.setDate(current, update.Date, func(individual *Individual, date Date) { individual.LarvaHatchDate = date })

	default:
		return apperr.ValidationError("Unknown update kind")
	}
}

func (tree *Tree) setDate(current *Individual, date Date, assign func(*Individual, Date)) error {
	if date.IsZero() {
		return apperr.ValidationError("Date is required")
	}
	updated := current.clone()
	assign(updated, date)
	tree.Individuals[updated.ID] = updated
	return nil
}
