// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// # Table Sorting

// SortKey is a sortable column of the individual table.
type SortKey string

const (
	SortManagementNumber     SortKey = "managementNumber"
	SortSex                  SortKey = "sex"
	SortParentInfo           SortKey = "parentInfo"
	SortGeneration           SortKey = "generation"
	SortHatchDate            SortKey = "hatchDate"
	SortPupaDate             SortKey = "pupaDate"
	SortNextBottleChangeDate SortKey = "nextBottleChangeDate"
	SortHeadWidth            SortKey = "headWidth"
	SortLastWeight           SortKey = "lastWeight"
	SortNotes                SortKey = "notes"
)

// Direction of a sort.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKeys lists every accepted key.
var SortKeys = []string{
	string(SortManagementNumber), string(SortSex), string(SortParentInfo), string(SortGeneration),
	string(SortHatchDate), string(SortPupaDate), string(SortNextBottleChangeDate),
	string(SortHeadWidth), string(SortLastWeight), string(SortNotes),
}

// ParseSort validates raw query values. Empty values default to management number ascending.
func ParseSort(rawKey, rawDirection string) (SortKey, Direction, error) {
	if rawKey == "" {
		rawKey = string(SortManagementNumber)
	}
	if rawDirection == "" {
		rawDirection = string(Ascending)
	}
	v := &validate.Validator{}
	v.OneOf("sort", rawKey, SortKeys...)
	v.OneOf("direction", rawDirection, string(Ascending), string(Descending))
	if err := v.Err(); err != nil {
		return "", "", err
	}
	return SortKey(rawKey), Direction(rawDirection), nil
}

// numeric reads a number from free text; unparseable input counts as zero.
func numeric(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}

func compareBy(key SortKey, left, right *Individual) int {
	switch key {
	case SortManagementNumber:
		return numeric(left.ManagementNumber).Cmp(numeric(right.ManagementNumber))
	case SortHeadWidth:
		return left.HeadWidth.Decimal.Cmp(right.HeadWidth.Decimal)
	case SortLastWeight:
		leftWeight, _ := left.LastWeight()
		rightWeight, _ := right.LastWeight()
		return leftWeight.Cmp(rightWeight)
	case SortGeneration:
		return compareGenerations(ParseGeneration(left.Generation), ParseGeneration(right.Generation))
	case SortHatchDate:
		return left.HatchDate.Compare(right.HatchDate)
	case SortPupaDate:
		return left.PupaDate.Compare(right.PupaDate)
	case SortNextBottleChangeDate:
		return left.NextBottleChangeDate.Compare(right.NextBottleChangeDate)
	case SortSex:
		return strings.Compare(string(left.Sex), string(right.Sex))
	case SortParentInfo:
		return strings.Compare(left.ParentInfo, right.ParentInfo)
	case SortNotes:
		return strings.Compare(left.Notes, right.Notes)
	}
	return 0
}

// SortIndividuals returns a sorted copy of rows. The sort is stable, so equal
// rows keep their input order in both directions.
func SortIndividuals(rows []*Individual, key SortKey, direction Direction) []*Individual {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(left, right *Individual) int {
		order := compareBy(key, left, right)
		if direction == Descending {
			return -order
		}
		return order
	})
	return sorted
}
