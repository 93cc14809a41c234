// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// # Maintenance Scheduling

// latestEntry returns the latest-dated entry. Ties go to the entry recorded last.
func latestEntry(history []WeightEntry) (WeightEntry, bool) {
	if len(history) == 0 {
		return WeightEntry{}, false
	}
	latest := history[0]
	for _, entry := range history[1:] {
		if !entry.Date.Before(latest.Date) {
			latest = entry
		}
	}
	return latest, true
}

// NextBottleChange projects the next maintenance date from a history and interval.
// It returns the unset Date for an empty history.
func NextBottleChange(history []WeightEntry, intervalMonths int) Date {
	latest, ok := latestEntry(history)
	if !ok {
		return Date{}
	}
	if intervalMonths < 1 {
		intervalMonths = DefaultBottleChangeInterval
	}
	return latest.Date.AddMonths(intervalMonths)
}

// reschedule recomputes the next bottle change of one individual on a mutable tree.
func (tree *Tree) reschedule(individualID int64) {
	current := tree.Individuals[individualID]
	line := tree.Lines[current.LineID]

	next := NextBottleChange(current.LarvaHistory, line.BottleChangeInterval)
	if next.Equal(current.NextBottleChangeDate) {
		return
	}
	updated := current.clone()
	updated.NextBottleChangeDate = next
	tree.Individuals[individualID] = updated
}

func checkWeight(date Date, weight decimal.Decimal) error {
	v := &validate.Validator{}
	v.Custom("date", date.IsZero(), "This field is required")
	v.Custom("weight", weight.IsNegative(), "Must not be negative")
	return v.Err()
}

/*
RecordWeight appends a weighing to an individual's history and reschedules its
next bottle change.

Parameters:
  - tree: *Tree
  - individualID: int64
  - date: Date (required)
  - weight: decimal.Decimal (grams, non-negative)

Returns:
  - *Tree: The updated collection
  - int64: The id of the new history entry
  - error: ValidationError or NotFound
*/
func RecordWeight(tree *Tree, individualID int64, date Date, weight decimal.Decimal) (*Tree, int64, error) {
	if err := checkWeight(date, weight); err != nil {
		return nil, 0, err
	}
	current, err := tree.individual(individualID)
	if err != nil {
		return nil, 0, err
	}

	next := tree.mutable()
	entryID := next.appendWeight(current, date, weight)
	return next, entryID, nil
}

// appendWeight adds an entry on a mutable tree and reschedules. A backdated
// entry lands in date order; same-day entries keep recording order.
func (tree *Tree) appendWeight(current *Individual, date Date, weight decimal.Decimal) int64 {
	entryID := tree.nextID()
	updated := current.clone()
	updated.LarvaHistory = append(updated.LarvaHistory, WeightEntry{ID: entryID, Date: date, Weight: weight})
	sortHistory(updated.LarvaHistory)
	tree.Individuals[updated.ID] = updated
	tree.reschedule(updated.ID)
	return entryID
}

func sortHistory(history []WeightEntry) {
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })
}

// ReplaceHistory overwrites the whole weight history, ordered by date. Entries
// whose id is not already in the history get a fresh one.
func ReplaceHistory(tree *Tree, individualID int64, entries []WeightEntry) (*Tree, error) {
	for _, entry := range entries {
		if err := checkWeight(entry.Date, entry.Weight); err != nil {
			return nil, err
		}
	}
	current, err := tree.individual(individualID)
	if err != nil {
		return nil, err
	}

	next := tree.mutable()
	known := make(map[int64]bool, len(current.LarvaHistory))
	for _, entry := range current.LarvaHistory {
		known[entry.ID] = true
	}

	var history []WeightEntry
	seen := make(map[int64]bool, len(entries))
	for _, entry := range entries {
		if !known[entry.ID] || seen[entry.ID] {
			entry.ID = next.nextID()
		}
		seen[entry.ID] = true
		history = append(history, entry)
	}
	sortHistory(history)

	updated := current.clone()
	updated.LarvaHistory = history
	next.Individuals[individualID] = updated
	next.reschedule(individualID)
	return next, nil
}

// RemoveWeightEntry deletes one history entry and reschedules. Removing the last
// entry clears the next bottle change date.
func RemoveWeightEntry(tree *Tree, individualID, entryID int64) (*Tree, error) {
	current, err := tree.individual(individualID)
	if err != nil {
		return nil, err
	}

	index := -1
	for position, entry := range current.LarvaHistory {
		if entry.ID == entryID {
			index = position
			break
		}
	}
	if index < 0 {
		return nil, apperr.NotFound("Weight entry")
	}

	next := tree.mutable()
	updated := current.clone()
	updated.LarvaHistory = append(updated.LarvaHistory[:index], updated.LarvaHistory[index+1:]...)
	next.Individuals[individualID] = updated
	next.reschedule(individualID)
	return next, nil
}

// SetLineInterval changes a line's cadence and reschedules all of its individuals.
func SetLineInterval(tree *Tree, lineID int64, months int) (*Tree, error) {
	return UpdateLine(tree, lineID, LinePatch{BottleChangeInterval: &months})
}
