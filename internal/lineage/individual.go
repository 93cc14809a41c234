// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// Field names of an individual, as reported in validation errors.
const (
	FieldManagementNumber = "managementNumber"
	FieldSex              = "sex"
	FieldGeneration       = "generation"
	FieldHeadWidth        = "headWidth"
	FieldNotes            = "notes"
	FieldIndividualIDs    = "individualIds"
)

const maxNotesLength = 4000

// # Management Numbers

// managementNumber reads a numeric management number. Non-numeric values are ignored.
func managementNumber(raw string) (int, bool) {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	return number, err == nil
}

// nextManagementNumber returns max+1 over the numeric management numbers of
// the given individuals, or 1 when none is numeric.
func nextManagementNumber(individuals []*Individual) int {
	highest := 0
	for _, individual := range individuals {
		if number, ok := managementNumber(individual.ManagementNumber); ok && number > highest {
			highest = number
		}
	}
	return highest + 1
}

func (tree *Tree) allIndividuals() []*Individual {
	rows := make([]*Individual, 0, len(tree.Individuals))
	for _, row := range tree.Individuals {
		rows = append(rows, row)
	}
	return rows
}

// # Individuals

// AddIndividual creates a blank CBF1 individual in a line. Its management number
// is the line's highest numeric number plus one.
func AddIndividual(tree *Tree, lineID int64) (*Tree, int64, error) {
	if _, err := tree.line(lineID); err != nil {
		return nil, 0, err
	}

	next := tree.mutable()
	id := next.nextID()
	next.Individuals[id] = &Individual{
		ID:               id,
		LineID:           lineID,
		ManagementNumber: strconv.Itoa(nextManagementNumber(tree.IndividualsOf(lineID))),
		Sex:              SexUnspecified,
		Generation:       Generation{Prefix: PrefixCBF, Number: 1}.String(),
	}
	return next, id, nil
}

// IndividualPatch carries optional edits. Nil fields are left alone.
//
// The weight history, the next bottle change date and the line are not
// editable here; they have dedicated operations.
type IndividualPatch struct {
	ManagementNumber *string `json:"managementNumber"`
	Sex              *Sex    `json:"sex"`
	ParentInfo       *string `json:"parentInfo"`
	Generation       *string `json:"generation"`
	HatchDate        *Date   `json:"hatchDate"`
	PupaDate         *Date   `json:"pupaDate"`
	LarvaHatchDate   *Date   `json:"larvaHatchDate"`
	FeedingStartDate *Date   `json:"feedingStartDate"`

	// HeadWidth is millimetres as text; an empty string clears it.
	HeadWidth *string `json:"headWidth"`
	Notes     *string `json:"notes"`
}

/*
UpdateIndividual applies a patch to one individual.

Parameters:
  - tree: *Tree
  - id: int64
  - patch: IndividualPatch

Returns:
  - *Tree: The updated collection
  - error: ValidationError or NotFound
*/
func UpdateIndividual(tree *Tree, id int64, patch IndividualPatch) (*Tree, error) {
	current, err := tree.individual(id)
	if err != nil {
		return nil, err
	}

	updated := current.clone()
	v := &validate.Validator{}

	if patch.ManagementNumber != nil {
		updated.ManagementNumber = strings.TrimSpace(*patch.ManagementNumber)
		v.Required(FieldManagementNumber, updated.ManagementNumber).MaxLen(FieldManagementNumber, updated.ManagementNumber, 50)
	}
	if patch.Sex != nil {
		updated.Sex = *patch.Sex
		v.Custom(FieldSex, !updated.Sex.Valid(), "Must be one of: male, female, unspecified")
	}
	if patch.ParentInfo != nil {
		updated.ParentInfo = strings.TrimSpace(*patch.ParentInfo)
		v.MaxLen("parentInfo", updated.ParentInfo, 500)
	}
	if patch.Generation != nil {
		raw := strings.TrimSpace(*patch.Generation)
		if generationPattern.MatchString(raw) {
			updated.Generation = ParseGeneration(raw).String()
		} else {
			v.Custom(FieldGeneration, true, "Must be WF or CBF followed by a number")
		}
	}
	if patch.HatchDate != nil {
		updated.HatchDate = *patch.HatchDate
	}
	if patch.PupaDate != nil {
		updated.PupaDate = *patch.PupaDate
	}
	if patch.LarvaHatchDate != nil {
		updated.LarvaHatchDate = *patch.LarvaHatchDate
	}
	if patch.FeedingStartDate != nil {
		updated.FeedingStartDate = *patch.FeedingStartDate
	}
	if patch.HeadWidth != nil {
		width, err := parseHeadWidth(*patch.HeadWidth)
		if err != nil {
			v.Custom(FieldHeadWidth, true, "Must be a non-negative number of millimetres")
		}
		updated.HeadWidth = width
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
		v.MaxLen(FieldNotes, updated.Notes, maxNotesLength)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	next := tree.mutable()
	next.Individuals[id] = updated
	return next, nil
}

// parseHeadWidth reads millimetres. Blank input clears the value.
func parseHeadWidth(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	width, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if width.IsNegative() {
		return decimal.NullDecimal{}, apperr.ValidationError("Head width must not be negative")
	}
	return decimal.NewNullDecimal(width), nil
}

// DeleteIndividuals removes every listed individual. Unknown ids reject the whole call.
func DeleteIndividuals(tree *Tree, ids []int64) (*Tree, error) {
	if len(ids) == 0 {
		return nil, validate.RequiredError(FieldIndividualIDs, "Select at least one individual")
	}
	for _, id := range ids {
		if _, err := tree.individual(id); err != nil {
			return nil, err
		}
	}

	next := tree.mutable()
	for _, id := range ids {
		delete(next.Individuals, id)
	}
	return next, nil
}

// # Images

// SetImages replaces the image list of an individual.
func SetImages(tree *Tree, id int64, urls []string) (*Tree, error) {
	current, err := tree.individual(id)
	if err != nil {
		return nil, err
	}

	var cleaned []string
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			cleaned = append(cleaned, url)
		}
	}

	next := tree.mutable()
	updated := current.clone()
	updated.ImageURLs = cleaned
	next.Individuals[id] = updated
	return next, nil
}

// AppendImage adds one image URL to an individual.
func AppendImage(tree *Tree, id int64, url string) (*Tree, error) {
	current, err := tree.individual(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, validate.RequiredError("url", "This field is required")
	}
	return SetImages(tree, id, append(append([]string(nil), current.ImageURLs...), url))
}
