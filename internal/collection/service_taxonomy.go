// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
)

// # Genera

// AddGenus creates a genus in the owner's collection.
func (service *Service) AddGenus(context context.Context, owner, name string) (lineage.Genus, error) {
	var id int64
	tree, err := service.mutate(context, owner, "genus_created", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, created, err := lineage.AddGenus(tree, name)
		id = created
		return next, err
	})
	if err != nil {
		return lineage.Genus{}, err
	}
	return *tree.Genera[id], nil
}

// RenameGenus changes a genus name.
func (service *Service) RenameGenus(context context.Context, owner string, id int64, name string) (lineage.Genus, error) {
	tree, err := service.mutate(context, owner, "genus_renamed", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.RenameGenus(tree, id, name)
	})
	if err != nil {
		return lineage.Genus{}, err
	}
	return *tree.Genera[id], nil
}

// DeleteGenus removes a genus and everything below it.
func (service *Service) DeleteGenus(context context.Context, owner string, id int64) error {
	_, err := service.mutate(context, owner, "genus_deleted", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.DeleteGenus(tree, id)
	})
	return err
}

// # Species

// AddSpecies creates a species under a genus.
func (service *Service) AddSpecies(context context.Context, owner string, genusID int64, name string) (lineage.Species, error) {
	var id int64
	tree, err := service.mutate(context, owner, "species_created", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, created, err := lineage.AddSpecies(tree, genusID, name)
		id = created
		return next, err
	})
	if err != nil {
		return lineage.Species{}, err
	}
	return *tree.Species[id], nil
}

// RenameSpecies changes a species name.
func (service *Service) RenameSpecies(context context.Context, owner string, id int64, name string) (lineage.Species, error) {
	tree, err := service.mutate(context, owner, "species_renamed", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.RenameSpecies(tree, id, name)
	})
	if err != nil {
		return lineage.Species{}, err
	}
	return *tree.Species[id], nil
}

// DeleteSpecies removes a species and everything below it.
func (service *Service) DeleteSpecies(context context.Context, owner string, id int64) error {
	_, err := service.mutate(context, owner, "species_deleted", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.DeleteSpecies(tree, id)
	})
	return err
}

// # Lines

// AddLine creates a line under a species. An interval of 0 uses the default.
func (service *Service) AddLine(context context.Context, owner string, speciesID int64, name string, interval int) (lineage.Line, error) {
	var id int64
	tree, err := service.mutate(context, owner, "line_created", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, created, err := lineage.AddLine(tree, speciesID, name, interval)
		id = created
		return next, err
	})
	if err != nil {
		return lineage.Line{}, err
	}
	return *tree.Lines[id], nil
}

// UpdateLine renames a line and/or changes its bottle change interval.
func (service *Service) UpdateLine(context context.Context, owner string, id int64, patch lineage.LinePatch) (lineage.Line, error) {
	tree, err := service.mutate(context, owner, "line_updated", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.UpdateLine(tree, id, patch)
	})
	if err != nil {
		return lineage.Line{}, err
	}
	return *tree.Lines[id], nil
}

// SetLineInterval changes the interval and reschedules the line's individuals.
func (service *Service) SetLineInterval(context context.Context, owner string, id int64, months int) (lineage.Line, error) {
	tree, err := service.mutate(context, owner, "line_interval_changed", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.SetLineInterval(tree, id, months)
	})
	if err != nil {
		return lineage.Line{}, err
	}
	return *tree.Lines[id], nil
}

// DeleteLine removes a line and its individuals.
func (service *Service) DeleteLine(context context.Context, owner string, id int64) error {
	_, err := service.mutate(context, owner, "line_deleted", func(tree *lineage.Tree) (*lineage.Tree, error) {
		return lineage.DeleteLine(tree, id)
	})
	return err
}

/*
AdoptTaxonomy makes sure a catalog entry exists in the owner's collection.

Parameters:
  - context: context.Context
  - owner: string
  - genus, species, line: string

Returns:
  - lineage.Line: The matched or created line
  - error: ValidationError on blank names
*/
func (service *Service) AdoptTaxonomy(context context.Context, owner, genus, species, line string) (lineage.Line, error) {
	var id int64
	tree, err := service.mutate(context, owner, "taxonomy_adopted", func(tree *lineage.Tree) (*lineage.Tree, error) {
		next, adopted, err := lineage.AdoptTaxonomy(tree, genus, species, line)
		id = adopted
		return next, err
	})
	if err != nil {
		return lineage.Line{}, err
	}
	return *tree.Lines[id], nil
}
