// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"fmt"
	"sort"
)

// # Persistence Form

// SnapshotVersion is the current layout of [Snapshot].
const SnapshotVersion = 1

// Snapshot is the flat, JSON-friendly form of a tree. Tables are ordered by id.
type Snapshot struct {
	Version     int          `json:"version"`
	Owner       string       `json:"owner"`
	Seq         int64        `json:"seq"`
	Genera      []Genus      `json:"genera"`
	Species     []Species    `json:"species"`
	Lines       []Line       `json:"lines"`
	Individuals []Individual `json:"individuals"`
}

// Snapshot copies the tree into its persistence form.
func (tree *Tree) Snapshot() Snapshot {
	snapshot := Snapshot{
		Version:     SnapshotVersion,
		Owner:       tree.Owner,
		Seq:         tree.Seq,
		Genera:      make([]Genus, 0, len(tree.Genera)),
		Species:     make([]Species, 0, len(tree.Species)),
		Lines:       make([]Line, 0, len(tree.Lines)),
		Individuals: make([]Individual, 0, len(tree.Individuals)),
	}
	for _, row := range tree.Genera {
		snapshot.Genera = append(snapshot.Genera, *row)
	}
	for _, row := range tree.Species {
		snapshot.Species = append(snapshot.Species, *row)
	}
	for _, row := range tree.Lines {
		snapshot.Lines = append(snapshot.Lines, *row)
	}
	for _, row := range tree.Individuals {
		snapshot.Individuals = append(snapshot.Individuals, *presentable(row))
	}

	sort.Slice(snapshot.Genera, func(i, j int) bool { return snapshot.Genera[i].ID < snapshot.Genera[j].ID })
	sort.Slice(snapshot.Species, func(i, j int) bool { return snapshot.Species[i].ID < snapshot.Species[j].ID })
	sort.Slice(snapshot.Lines, func(i, j int) bool { return snapshot.Lines[i].ID < snapshot.Lines[j].ID })
	sort.Slice(snapshot.Individuals, func(i, j int) bool { return snapshot.Individuals[i].ID < snapshot.Individuals[j].ID })
	return snapshot
}

// presentable returns a copy whose slices encode as [] rather than null.
func presentable(individual *Individual) *Individual {
	copied := individual.clone()
	if copied.LarvaHistory == nil {
		copied.LarvaHistory = []WeightEntry{}
	}
	if copied.ImageURLs == nil {
		copied.ImageURLs = []string{}
	}
	return copied
}

/*
Restore rebuilds a tree from a snapshot and checks its integrity.

Parameters:
  - snapshot: Snapshot

Returns:
  - *Tree: The collection
  - error: When ids repeat, a row points at a missing parent, or the version is unknown
*/
func Restore(snapshot Snapshot) (*Tree, error) {
	if snapshot.Version > SnapshotVersion {
		return nil, fmt.Errorf("lineage: snapshot version %d is newer than %d", snapshot.Version, SnapshotVersion)
	}

	tree := NewTree(snapshot.Owner)
	tree.Seq = snapshot.Seq
	seen := map[int64]bool{}

	claim := func(kind string, id int64) error {
		if id <= 0 || seen[id] {
			return fmt.Errorf("lineage: %s id %d is invalid or repeated", kind, id)
		}
		seen[id] = true
		tree.Seq = max(tree.Seq, id)
		return nil
	}

	for _, row := range snapshot.Genera {
		if err := claim("genus", row.ID); err != nil {
			return nil, err
		}
		genus := row
		tree.Genera[row.ID] = &genus
	}
	for _, row := range snapshot.Species {
		if err := claim("species", row.ID); err != nil {
			return nil, err
		}
		if _, ok := tree.Genera[row.GenusID]; !ok {
			return nil, fmt.Errorf("lineage: species %d references missing genus %d", row.ID, row.GenusID)
		}
		species := row
		tree.Species[row.ID] = &species
	}
	for _, row := range snapshot.Lines {
		if err := claim("line", row.ID); err != nil {
			return nil, err
		}
		if _, ok := tree.Species[row.SpeciesID]; !ok {
			return nil, fmt.Errorf("lineage: line %d references missing species %d", row.ID, row.SpeciesID)
		}
		line := row
		if line.BottleChangeInterval < 1 {
			line.BottleChangeInterval = DefaultBottleChangeInterval
		}
		tree.Lines[row.ID] = &line
	}
	for _, row := range snapshot.Individuals {
		if err := claim("individual", row.ID); err != nil {
			return nil, err
		}
		if _, ok := tree.Lines[row.LineID]; !ok {
			return nil, fmt.Errorf("lineage: individual %d references missing line %d", row.ID, row.LineID)
		}
		individual := row.clone()
		if !individual.Sex.Valid() {
			individual.Sex = SexUnspecified
		}
		for _, entry := range individual.LarvaHistory {
			tree.Seq = max(tree.Seq, entry.ID)
		}
		tree.Individuals[row.ID] = individual
	}
	return tree, nil
}

// # Nested View

// LineView is a line with its individuals.
type LineView struct {
	ID                   int64        `json:"id"`
	Name                 string       `json:"name"`
	BottleChangeInterval int          `json:"bottleChangeInterval"`
	Individuals          []Individual `json:"individuals"`
}

// SpeciesView is a species with its lines.
type SpeciesView struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Subspecies []LineView `json:"subspecies"`
}

// GenusView is a genus with its species.
type GenusView struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Species []SpeciesView `json:"species"`
}

// View renders the nested genus → species → line → individual form.
func View(tree *Tree) []GenusView {
	genera := []GenusView{}
	for _, genus := range tree.GeneraList() {
		genusView := GenusView{ID: genus.ID, Name: genus.Name, Species: []SpeciesView{}}
		for _, species := range tree.SpeciesOf(genus.ID) {
			speciesView := SpeciesView{ID: species.ID, Name: species.Name, Subspecies: []LineView{}}
			for _, line := range tree.LinesOf(species.ID) {
				lineView := LineView{
					ID:                   line.ID,
					Name:                 line.Name,
					BottleChangeInterval: line.BottleChangeInterval,
					Individuals:          []Individual{},
				}
				for _, individual := range tree.IndividualsOf(line.ID) {
					lineView.Individuals = append(lineView.Individuals, *presentable(individual))
				}
				speciesView.Subspecies = append(speciesView.Subspecies, lineView)
			}
			genusView.Species = append(genusView.Species, speciesView)
		}
		genera = append(genera, genusView)
	}
	return genera
}

// Stats counts the rows of a tree.
type Stats struct {
	Genera      int `json:"genera"`
	Species     int `json:"species"`
	Lines       int `json:"lines"`
	Individuals int `json:"individuals"`
}

// Stats counts every table.
func (tree *Tree) Stats() Stats {
	return Stats{
		Genera:      len(tree.Genera),
		Species:     len(tree.Species),
		Lines:       len(tree.Lines),
		Individuals: len(tree.Individuals),
	}
}
