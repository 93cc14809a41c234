// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

// # Breeding Scope

// Scope classifies a breeding operation by how far apart the parents are.
type Scope string

const (
	// ScopeNormal: every parent is in the same line.
	ScopeNormal Scope = "normal"

	// ScopeInterLine: same species, different lines.
	ScopeInterLine Scope = "inter_line"

	// ScopeInterSpecies: same genus, different species. Offspring get a new species.
	ScopeInterSpecies Scope = "inter_species"
)

// ErrCrossGenus rejects breeding between genera.
var ErrCrossGenus = apperr.ValidationError("Parents must belong to the same genus")

// resolution is the outcome of scope detection over a parent set.
type resolution struct {
	scope     Scope
	genusID   int64
	speciesID int64
}

func (tree *Tree) resolve(parentIDs []int64) (resolution, error) {
	genera := map[int64]bool{}
	species := map[int64]bool{}
	lines := map[int64]bool{}

	var result resolution
	for _, id := range parentIDs {
		path, err := tree.PathOf(id)
		if err != nil {
			return resolution{}, err
		}
		genera[path.Genus.ID] = true
		species[path.Species.ID] = true
		lines[path.Line.ID] = true
		result.genusID = path.Genus.ID
		result.speciesID = path.Species.ID
	}

	switch {
	case len(genera) > 1:
		return resolution{}, ErrCrossGenus
	case len(species) > 1:
		result.scope = ScopeInterSpecies
		result.speciesID = 0
	case len(lines) > 1:
		result.scope = ScopeInterLine
	default:
		result.scope = ScopeNormal
	}
	return result, nil
}

// ResolveScope classifies a parent selection. The result does not depend on
// selection order. Parents spanning several genera are rejected.
func ResolveScope(tree *Tree, parentIDs []int64) (Scope, error) {
	if len(parentIDs) == 0 {
		return "", validate.RequiredError("parents", "Select at least one parent")
	}
	result, err := tree.resolve(parentIDs)
	if err != nil {
		return "", err
	}
	return result.scope, nil
}

// # Requests and Plans

// Spawn is one female's egg or larva harvest.
type Spawn struct {
	MotherID int64 `json:"motherId"`
	Count    int   `json:"count"`
	Date     Date  `json:"date"`
}

// BreedingRequest pairs zero or more males with one or more spawning females.
type BreedingRequest struct {
	Males  []int64 `json:"males"`
	Spawns []Spawn `json:"spawns"`
}

func (request BreedingRequest) parentIDs() []int64 {
	ids := append([]int64(nil), request.Males...)
	for _, spawn := range request.Spawns {
		ids = append(ids, spawn.MotherID)
	}
	return ids
}

// Plan is the first phase of a breeding operation. When DecisionRequired is
// set the caller must pass a [Decision] to [CommitBreeding].
type Plan struct {
	Scope                Scope  `json:"scope"`
	GenusID              int64  `json:"genusId"`
	SpeciesID            int64  `json:"speciesId,omitempty"`
	DecisionRequired     bool   `json:"decisionRequired"`
	SuggestedSpeciesName string `json:"suggestedSpeciesName,omitempty"`
	SuggestedLineName    string `json:"suggestedLineName,omitempty"`
	OffspringCount       int    `json:"offspringCount"`
}

// Decision answers the questions a plan raised.
type Decision struct {
	// CreateNewLine only matters for inter-line breeding. Declining keeps the
	// offspring in each mother's line.
	CreateNewLine  bool   `json:"createNewLine"`
	NewSpeciesName string `json:"newSpeciesName"`
	NewLineName    string `json:"newLineName"`
}

// BreedingResult reports what a commit created.
type BreedingResult struct {
	Scope        Scope   `json:"scope"`
	OffspringIDs []int64 `json:"offspringIds"`
	NewSpeciesID int64   `json:"newSpeciesId,omitempty"`
	NewLineID    int64   `json:"newLineId,omitempty"`
}

// check validates sexes, counts and ids of a request.
func (tree *Tree) check(request BreedingRequest) (int, error) {
	if len(request.Spawns) == 0 {
		return 0, validate.RequiredError("spawns", "Select at least one female")
	}

	for _, id := range request.Males {
		male, err := tree.individual(id)
		if err != nil {
			return 0, err
		}
		if male.Sex != SexMale {
			return 0, validate.RequiredError("males", fmt.Sprintf("Individual %s is not male", male.ManagementNumber))
		}
	}

	total := 0
	for _, spawn := range request.Spawns {
		mother, err := tree.individual(spawn.MotherID)
		if err != nil {
			return 0, err
		}
		if mother.Sex != SexFemale {
			return 0, validate.RequiredError("spawns", fmt.Sprintf("Individual %s is not female", mother.ManagementNumber))
		}
		if spawn.Count < 0 {
			return 0, validate.RequiredError("spawns", "Spawn count must not be negative")
		}
		total += spawn.Count
	}
	if total == 0 {
		return 0, validate.RequiredError("spawns", "Enter a spawn count for at least one female")
	}
	return total, nil
}

/*
PlanBreeding validates a request and classifies it without touching the tree.

Parameters:
  - tree: *Tree
  - request: BreedingRequest

Returns:
  - Plan: Scope plus suggested names for a new species or line
  - error: ValidationError (cross-genus, no females, wrong sex, no offspring) or NotFound
*/
func PlanBreeding(tree *Tree, request BreedingRequest) (Plan, error) {
	total, err := tree.check(request)
	if err != nil {
		return Plan{}, err
	}
	result, err := tree.resolve(request.parentIDs())
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Scope:            result.scope,
		GenusID:          result.genusID,
		SpeciesID:        result.speciesID,
		DecisionRequired: result.scope != ScopeNormal,
		OffspringCount:   total,
	}
	if plan.DecisionRequired {
		plan.SuggestedSpeciesName, plan.SuggestedLineName = tree.suggestNames(request)
	}
	return plan, nil
}

// suggestNames pairs the first parent with the first parent that differs from
// it, as "<first> x <other>" for species and line names.
func (tree *Tree) suggestNames(request BreedingRequest) (string, string) {
	ids := request.parentIDs()
	first, _ := tree.PathOf(ids[0])

	speciesName, lineName := "", ""
	for _, id := range ids[1:] {
		path, _ := tree.PathOf(id)
		if speciesName == "" && path.Species.ID != first.Species.ID {
			speciesName = first.Species.Name + " x " + path.Species.Name
		}
		if lineName == "" && path.Line.ID != first.Line.ID {
			lineName = first.Line.Name + " x " + path.Line.Name
		}
	}
	return speciesName, lineName
}

/*
CommitBreeding creates the offspring of a planned operation.

The scope is resolved again from the tree. Inter-species breeding creates one
new species with one new line under the shared genus. Inter-line breeding
creates one new line when the decision asks for it. In both cases the filial
number restarts at 1. Otherwise each spawn's offspring join the mother's line.

The first male is the recorded father. Management numbers continue from the
highest numeric number anywhere in the collection, across the whole batch.

Parameters:
  - tree: *Tree
  - request: BreedingRequest
  - decision: Decision

Returns:
  - *Tree: The collection with the offspring (and new taxonomy) added
  - BreedingResult: Ids of everything created
  - error: ValidationError or NotFound; the input tree is unchanged
*/
func CommitBreeding(tree *Tree, request BreedingRequest, decision Decision) (*Tree, BreedingResult, error) {
	if _, err := tree.check(request); err != nil {
		return nil, BreedingResult{}, err
	}
	resolved, err := tree.resolve(request.parentIDs())
	if err != nil {
		return nil, BreedingResult{}, err
	}

	decision.NewSpeciesName = strings.TrimSpace(decision.NewSpeciesName)
	decision.NewLineName = strings.TrimSpace(decision.NewLineName)

	reset := false
	v := &validate.Validator{}
	switch resolved.scope {
	case ScopeInterSpecies:
		v.Required("newSpeciesName", decision.NewSpeciesName).MaxLen("newSpeciesName", decision.NewSpeciesName, maxNameLength)
		v.Required("newLineName", decision.NewLineName).MaxLen("newLineName", decision.NewLineName, maxNameLength)
		reset = true
	case ScopeInterLine:
		if decision.CreateNewLine {
			v.Required("newLineName", decision.NewLineName).MaxLen("newLineName", decision.NewLineName, maxNameLength)
			reset = true
		}
	}
	if err := v.Err(); err != nil {
		return nil, BreedingResult{}, err
	}

	next := tree.mutable()
	result := BreedingResult{Scope: resolved.scope}

	targetLine := int64(0)
	switch {
	case resolved.scope == ScopeInterSpecies:
		result.NewSpeciesID = next.nextID()
		next.Species[result.NewSpeciesID] = &Species{ID: result.NewSpeciesID, GenusID: resolved.genusID, Name: decision.NewSpeciesName}
		result.NewLineID = next.addLine(result.NewSpeciesID, decision.NewLineName)
		targetLine = result.NewLineID
	case resolved.scope == ScopeInterLine && decision.CreateNewLine:
		result.NewLineID = next.addLine(resolved.speciesID, decision.NewLineName)
		targetLine = result.NewLineID
	}

	var father *Individual
	var fatherGeneration *Generation
	if len(request.Males) > 0 {
		father = tree.Individuals[request.Males[0]]
		parsed := ParseGeneration(father.Generation)
		fatherGeneration = &parsed
	}

	counter := nextManagementNumber(tree.allIndividuals())
	for _, spawn := range request.Spawns {
		if spawn.Count <= 0 {
			continue
		}
		mother := tree.Individuals[spawn.MotherID]

		line := targetLine
		if line == 0 {
			line = mother.LineID
		}
		generation := Combine(fatherGeneration, ParseGeneration(mother.Generation), reset).String()
		parentInfo := tree.parentInfo(father, mother)

		for range spawn.Count {
			id := next.nextID()
			next.Individuals[id] = &Individual{
				ID:               id,
				LineID:           line,
				ManagementNumber: strconv.Itoa(counter),
				Sex:              SexUnspecified,
				ParentInfo:       parentInfo,
				Generation:       generation,
				LarvaHatchDate:   spawn.Date,
			}
			result.OffspringIDs = append(result.OffspringIDs, id)
			counter++
		}
	}
	return next, result, nil
}

// parentInfo renders "father: <species> <line> <no>, mother: <species> <line> <no>".
func (tree *Tree) parentInfo(father, mother *Individual) string {
	describe := func(individual *Individual) string {
		path, _ := tree.PathOf(individual.ID)
		return path.Species.Name + " " + path.Line.Name + " " + individual.ManagementNumber
	}

	parts := make([]string, 0, 2)
	if father != nil {
		parts = append(parts, "father: "+describe(father))
	}
	parts = append(parts, "mother: "+describe(mother))
	return strings.Join(parts, ", ")
}
