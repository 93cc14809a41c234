// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// maxNameLength bounds genus, species and line names.
const maxNameLength = 100

// Field names reported in validation errors.
const (
	FieldName     = "name"
	FieldInterval = "bottleChangeInterval"
)

func checkName(field, name string) error {
	v := &validate.Validator{}
	v.Required(field, name).MaxLen(field, name, maxNameLength)
	return v.Err()
}

// # Genus

// AddGenus creates a root-level genus and returns its id.
func AddGenus(tree *Tree, name string) (*Tree, int64, error) {
	name = strings.TrimSpace(name)
	if err := checkName(FieldName, name); err != nil {
		return nil, 0, err
	}

	next := tree.mutable()
	id := next.nextID()
	next.Genera[id] = &Genus{ID: id, Name: name}
	return next, id, nil
}

// RenameGenus changes a genus name.
func RenameGenus(tree *Tree, id int64, name string) (*Tree, error) {
	name = strings.TrimSpace(name)
	if err := checkName(FieldName, name); err != nil {
		return nil, err
	}
	current, err := tree.genus(id)
	if err != nil {
		return nil, err
	}

	next := tree.mutable()
	renamed := *current
	renamed.Name = name
	next.Genera[id] = &renamed
	return next, nil
}

// DeleteGenus removes a genus with all its species, lines and individuals.
func DeleteGenus(tree *Tree, id int64) (*Tree, error) {
	if _, err := tree.genus(id); err != nil {
		return nil, err
	}

	next := tree.mutable()
	for _, species := range tree.SpeciesOf(id) {
		next.dropSpecies(species.ID)
	}
	delete(next.Genera, id)
	return next, nil
}

// # Species

// AddSpecies creates a species under a genus and returns its id.
func AddSpecies(tree *Tree, genusID int64, name string) (*Tree, int64, error) {
	name = strings.TrimSpace(name)
	if err := checkName(FieldName, name); err != nil {
		return nil, 0, err
	}
	if _, err := tree.genus(genusID); err != nil {
		return nil, 0, err
	}

	next := tree.mutable()
	id := next.nextID()
	next.Species[id] = &Species{ID: id, GenusID: genusID, Name: name}
	return next, id, nil
}

// RenameSpecies changes a species name.
func RenameSpecies(tree *Tree, id int64, name string) (*Tree, error) {
	name = strings.TrimSpace(name)
	if err := checkName(FieldName, name); err != nil {
		return nil, err
	}
	current, err := tree.species(id)
	if err != nil {
		return nil, err
	}

	next := tree.mutable()
	renamed := *current
	renamed.Name = name
	next.Species[id] = &renamed
	return next, nil
}

// DeleteSpecies removes a species with its lines and individuals.
func DeleteSpecies(tree *Tree, id int64) (*Tree, error) {
	if _, err := tree.species(id); err != nil {
		return nil, err
	}
	next := tree.mutable()
	next.dropSpecies(id)
	return next, nil
}

func (tree *Tree) dropSpecies(id int64) {
	for _, line := range tree.LinesOf(id) {
		tree.dropLine(line.ID)
	}
	delete(tree.Species, id)
}

// # Lines

// LinePatch carries optional line edits.
type LinePatch struct {
	Name                 *string `json:"name"`
	BottleChangeInterval *int    `json:"bottleChangeInterval"`
}

// AddLine creates a line under a species. An interval of 0 means the default.
func AddLine(tree *Tree, speciesID int64, name string, interval int) (*Tree, int64, error) {
	name = strings.TrimSpace(name)
	if interval == 0 {
		interval = DefaultBottleChangeInterval
	}

	v := &validate.Validator{}
	v.Required(FieldName, name).MaxLen(FieldName, name, maxNameLength)
	v.Custom(FieldInterval, interval < 1, "Must be at least 1 month")
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	if _, err := tree.species(speciesID); err != nil {
		return nil, 0, err
	}

	next := tree.mutable()
	id := next.addLine(speciesID, name)
	next.Lines[id].BottleChangeInterval = interval
	return next, id, nil
}

// addLine inserts a line with the default interval. The tree must already be mutable.
func (tree *Tree) addLine(speciesID int64, name string) int64 {
	id := tree.nextID()
	tree.Lines[id] = &Line{
		ID:                   id,
		SpeciesID:            speciesID,
		Name:                 name,
		BottleChangeInterval: DefaultBottleChangeInterval,
	}
	return id
}

/*
UpdateLine renames a line and/or changes its maintenance interval.

Changing the interval reschedules the next bottle change of every individual
in the line.

Parameters:
  - tree: *Tree
  - id: int64
  - patch: LinePatch

Returns:
  - *Tree: The updated collection
  - error: ValidationError or NotFound
*/
func UpdateLine(tree *Tree, id int64, patch LinePatch) (*Tree, error) {
	current, err := tree.line(id)
	if err != nil {
		return nil, err
	}

	updated := *current
	v := &validate.Validator{}
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		v.Required(FieldName, updated.Name).MaxLen(FieldName, updated.Name, maxNameLength)
	}
	if patch.BottleChangeInterval != nil {
		updated.BottleChangeInterval = *patch.BottleChangeInterval
		v.Custom(FieldInterval, updated.BottleChangeInterval < 1, "Must be at least 1 month")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	next := tree.mutable()
	next.Lines[id] = &updated
	if updated.BottleChangeInterval != current.BottleChangeInterval {
		for _, individual := range tree.IndividualsOf(id) {
			next.reschedule(individual.ID)
		}
	}
	return next, nil
}

// DeleteLine removes a line and its individuals.
func DeleteLine(tree *Tree, id int64) (*Tree, error) {
	if _, err := tree.line(id); err != nil {
		return nil, err
	}
	next := tree.mutable()
	next.dropLine(id)
	return next, nil
}

func (tree *Tree) dropLine(id int64) {
	for _, individual := range tree.IndividualsOf(id) {
		delete(tree.Individuals, individual.ID)
	}
	delete(tree.Lines, id)
}

// # Catalog Adoption

/*
AdoptTaxonomy makes sure genus, species and line exist, matching existing names
case-insensitively and creating whatever is missing.

Parameters:
  - tree: *Tree
  - genus, species, line: string

Returns:
  - *Tree: The collection (a new tree even when nothing was created)
  - int64: The id of the matched or created line
  - error: ValidationError on blank names
*/
func AdoptTaxonomy(tree *Tree, genus, species, line string) (*Tree, int64, error) {
	genus, species, line = strings.TrimSpace(genus), strings.TrimSpace(species), strings.TrimSpace(line)

	v := &validate.Validator{}
	v.Required("genus", genus).MaxLen("genus", genus, maxNameLength)
	v.Required("species", species).MaxLen("species", species, maxNameLength)
	v.Required("subspecies", line).MaxLen("subspecies", line, maxNameLength)
	if err := v.Err(); err != nil {
		return nil, 0, err
	}

	next := tree.mutable()

	genusID := int64(0)
	for _, row := range next.GeneraList() {
		if strings.EqualFold(row.Name, genus) {
			genusID = row.ID
			break
		}
	}
	if genusID == 0 {
		genusID = next.nextID()
		next.Genera[genusID] = &Genus{ID: genusID, Name: genus}
	}

	speciesID := int64(0)
	for _, row := range next.SpeciesOf(genusID) {
		if strings.EqualFold(row.Name, species) {
			speciesID = row.ID
			break
		}
	}
	if speciesID == 0 {
		speciesID = next.nextID()
		next.Species[speciesID] = &Species{ID: speciesID, GenusID: genusID, Name: species}
	}

	for _, row := range next.LinesOf(speciesID) {
		if strings.EqualFold(row.Name, line) {
			return next, row.ID, nil
		}
	}
	return next, next.addLine(speciesID, line), nil
}
