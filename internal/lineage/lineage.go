// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lineage is the breeding and scheduling engine of beetlekeeper.

It operates on one owner's collection tree (genus → species → line → individual)
and has no I/O, no clock and no goroutines. Every operation takes a [*Tree] and
a typed command and returns a new tree. The input tree is never modified.

Architecture:

  - Arena storage: each node carries a stable int64 id drawn from the tree's own
    sequence and lives in a flat table keyed by that id. Parents are referenced
    by id, so an edit only replaces the rows it touches.
  - Copy on write: an operation copies the four table maps (pointers only) and
    swaps in fresh copies of the changed rows. Unchanged rows are shared between
    the old and the new tree.
  - Validate then commit: every rule is checked before the first row is written.
    A rejected operation returns an [apperr.AppError] and no tree.
  - Rows returned by the read helpers are shared with the tree and must be
    treated as read-only.
*/
package lineage

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

// DefaultBottleChangeInterval is the maintenance cadence, in months, of a new line.
const DefaultBottleChangeInterval = 3

// # Sex

// Sex of an individual.
type Sex string

const (
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
	SexUnspecified Sex = "unspecified"
)

// Valid reports whether s is one of the known values.
func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexUnspecified:
		return true
	}
	return false
}

// # Rows

// Genus is a root-level grouping.
type Genus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Species belongs to exactly one genus.
type Species struct {
	ID      int64  `json:"id"`
	GenusID int64  `json:"genusId"`
	Name    string `json:"name"`
}

// Line is a subspecies or breeding line. Its interval drives maintenance scheduling.
type Line struct {
	ID                   int64  `json:"id"`
	SpeciesID            int64  `json:"speciesId"`
	Name                 string `json:"name"`
	BottleChangeInterval int    `json:"bottleChangeInterval"`
}

// WeightEntry is one larva weighing, recorded at a bottle change.
type WeightEntry struct {
	ID     int64           `json:"id"`
	Date   Date            `json:"date"`
	Weight decimal.Decimal `json:"weight"`
}

// Individual is one tracked beetle.
type Individual struct {
	ID                   int64               `json:"id"`
	LineID               int64               `json:"lineId"`
	ManagementNumber     string              `json:"managementNumber"`
	Sex                  Sex                 `json:"sex"`
	ParentInfo           string              `json:"parentInfo"`
	Generation           string              `json:"generation"`
	HatchDate            Date                `json:"hatchDate"`
	PupaDate             Date                `json:"pupaDate"`
	LarvaHatchDate       Date                `json:"larvaHatchDate"`
	FeedingStartDate     Date                `json:"feedingStartDate"`
	LarvaHistory         []WeightEntry       `json:"larvaHistory"`
	HeadWidth            decimal.NullDecimal `json:"headWidth"`
	Notes                string              `json:"notes"`
	NextBottleChangeDate Date                `json:"nextBottleChangeDate"`
	ImageURLs            []string            `json:"imageUrls"`
}

// clone copies the row including its slices.
func (individual *Individual) clone() *Individual {
	copied := *individual
	copied.LarvaHistory = append([]WeightEntry(nil), individual.LarvaHistory...)
	copied.ImageURLs = append([]string(nil), individual.ImageURLs...)
	return &copied
}

// LastWeight returns the weight of the latest-dated history entry.
func (individual *Individual) LastWeight() (decimal.Decimal, bool) {
	latest, ok := latestEntry(individual.LarvaHistory)
	if !ok {
		return decimal.Zero, false
	}
	return latest.Weight, true
}

// # Tree

// Tree is one owner's whole collection.
type Tree struct {
	Owner string

	// Seq is the last id handed out. It only grows.
	Seq int64

	Genera      map[int64]*Genus
	Species     map[int64]*Species
	Lines       map[int64]*Line
	Individuals map[int64]*Individual
}

// NewTree returns an empty collection for owner.
func NewTree(owner string) *Tree {
	return &Tree{
		Owner:       owner,
		Genera:      map[int64]*Genus{},
		Species:     map[int64]*Species{},
		Lines:       map[int64]*Line{},
		Individuals: map[int64]*Individual{},
	}
}

// mutable returns a copy whose tables can be edited without touching tree.
func (tree *Tree) mutable() *Tree {
	next := &Tree{
		Owner:       tree.Owner,
		Seq:         tree.Seq,
		Genera:      make(map[int64]*Genus, len(tree.Genera)),
		Species:     make(map[int64]*Species, len(tree.Species)),
		Lines:       make(map[int64]*Line, len(tree.Lines)),
		Individuals: make(map[int64]*Individual, len(tree.Individuals)+1),
	}
	for id, row := range tree.Genera {
		next.Genera[id] = row
	}
	for id, row := range tree.Species {
		next.Species[id] = row
	}
	for id, row := range tree.Lines {
		next.Lines[id] = row
	}
	for id, row := range tree.Individuals {
		next.Individuals[id] = row
	}
	return next
}

func (tree *Tree) nextID() int64 {
	tree.Seq++
	return tree.Seq
}

// # Lookups

func (tree *Tree) genus(id int64) (*Genus, error) {
	if row, ok := tree.Genera[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Genus")
}

func (tree *Tree) species(id int64) (*Species, error) {
	if row, ok := tree.Species[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Species")
}

func (tree *Tree) line(id int64) (*Line, error) {
	if row, ok := tree.Lines[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Line")
}

func (tree *Tree) individual(id int64) (*Individual, error) {
	if row, ok := tree.Individuals[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Individual")
}

// Individual returns a copy of the individual with id.
func (tree *Tree) Individual(id int64) (*Individual, error) {
	row, err := tree.individual(id)
	if err != nil {
		return nil, err
	}
	return presentable(row), nil
}

// SortedLine returns copies of a line's individuals in the requested order,
// ready to encode: empty histories and image lists are [] rather than null.
func (tree *Tree) SortedLine(lineID int64, key SortKey, direction Direction) ([]*Individual, error) {
	if _, ok := tree.Lines[lineID]; !ok {
		return nil, apperr.NotFound("Line")
	}
	rows := SortIndividuals(tree.IndividualsOf(lineID), key, direction)
	for i, row := range rows {
		rows[i] = presentable(row)
	}
	return rows, nil
}

// Path is the taxonomy an individual sits under.
type Path struct {
	Genus   *Genus
	Species *Species
	Line    *Line
}

// PathOf resolves the genus, species and line owning an individual.
func (tree *Tree) PathOf(individualID int64) (Path, error) {
	individual, err := tree.individual(individualID)
	if err != nil {
		return Path{}, err
	}
	line := tree.Lines[individual.LineID]
	species := tree.Species[line.SpeciesID]
	return Path{Genus: tree.Genera[species.GenusID], Species: species, Line: line}, nil
}

// # Ordered Children

// GeneraList returns every genus ordered by id.
func (tree *Tree) GeneraList() []*Genus {
	rows := make([]*Genus, 0, len(tree.Genera))
	for _, row := range tree.Genera {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// SpeciesOf returns the species of a genus ordered by id.
func (tree *Tree) SpeciesOf(genusID int64) []*Species {
	var rows []*Species
	for _, row := range tree.Species {
		if row.GenusID == genusID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// LinesOf returns the lines of a species ordered by id.
func (tree *Tree) LinesOf(speciesID int64) []*Line {
	var rows []*Line
	for _, row := range tree.Lines {
		if row.SpeciesID == speciesID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// IndividualsOf returns the individuals of a line ordered by id.
func (tree *Tree) IndividualsOf(lineID int64) []*Individual {
	var rows []*Individual
	for _, row := range tree.Individuals {
		if row.LineID == lineID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}
