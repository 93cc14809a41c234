// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"fmt"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// TransferResult reports the line created by a transfer.
type TransferResult struct {
	LineID int64   `json:"lineId"`
	Moved  []int64 `json:"moved"`
}

/*
TransferToNewLine moves individuals of one species into a new line.

A provenance note "[<today>: moved from <old line> to <new line>]" is appended
to each individual's notes. The individuals leave their previous lines.

Parameters:
  - tree: *Tree
  - individualIDs: []int64 (all in the same species)
  - name: string (the new line)
  - today: Date

Returns:
  - *Tree: The updated collection
  - TransferResult: The new line and the moved ids
  - error: ValidationError (empty selection, blank name, several species) or NotFound
*/
func TransferToNewLine(tree *Tree, individualIDs []int64, name string, today Date) (*Tree, TransferResult, error) {
	name = strings.TrimSpace(name)

	v := &validate.Validator{}
	v.Custom(FieldIndividualIDs, len(individualIDs) == 0, "Select at least one individual")
	v.Required(FieldName, name).MaxLen(FieldName, name, maxNameLength)
	if err := v.Err(); err != nil {
		return nil, TransferResult{}, err
	}

	speciesID := int64(0)
	for _, id := range individualIDs {
		path, err := tree.PathOf(id)
		if err != nil {
			return nil, TransferResult{}, err
		}
		if speciesID != 0 && path.Species.ID != speciesID {
			return nil, TransferResult{}, validate.RequiredError(FieldIndividualIDs, "Individuals must belong to the same species")
		}
		speciesID = path.Species.ID
	}

	next := tree.mutable()
	lineID := next.addLine(speciesID, name)
	result := TransferResult{LineID: lineID}

	moved := map[int64]bool{}
	for _, id := range individualIDs {
		if moved[id] {
			continue
		}
		moved[id] = true

		current := tree.Individuals[id]
		previous := tree.Lines[current.LineID]

		updated := current.clone()
		updated.LineID = lineID
		note := fmt.Sprintf("[%s: moved from %s to %s]", today, previous.Name, name)
		updated.Notes = strings.TrimSpace(updated.Notes + " " + note)
		next.Individuals[id] = updated
		next.reschedule(id)

		result.Moved = append(result.Moved, id)
	}
	return next, result, nil
}
