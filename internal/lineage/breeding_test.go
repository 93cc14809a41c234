// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

/*
TestResolveScope_OrderIndependent checks that the scope depends only on the set
of parents, not their order.
*/
func TestResolveScope_OrderIndependent(t *testing.T) {
	f := newFixture(t)
	male := f.add(t, f.mk, "1", lineage.SexMale, "CBF1")
	female := f.add(t, f.mk, "2", lineage.SexFemale, "CBF1")
	sibling := f.add(t, f.mk, "3", lineage.SexFemale, "CBF1")
	otherLine := f.add(t, f.ikeda, "4", lineage.SexFemale, "CBF1")
	otherSpecies := f.add(t, f.palawan, "5", lineage.SexFemale, "WF1")

	tests := []struct {
		name    string
		parents []int64
		want    lineage.Scope
	}{
		{"same_line", []int64{male, female, sibling}, lineage.ScopeNormal},
		{"same_line_reversed", []int64{sibling, female, male}, lineage.ScopeNormal},
		{"cross_line", []int64{male, otherLine}, lineage.ScopeInterLine},
		{"cross_line_reversed", []int64{otherLine, male}, lineage.ScopeInterLine},
		{"cross_species_first", []int64{otherSpecies, male, female}, lineage.ScopeInterSpecies},
		{"cross_species_last", []int64{male, female, otherSpecies}, lineage.ScopeInterSpecies},
		{"cross_species_wins_over_line", []int64{otherLine, male, otherSpecies}, lineage.ScopeInterSpecies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := lineage.ResolveScope(f.tree, tt.parents)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scope)
		})
	}
}

/*
TestBreeding_CrossGenusLeavesTreeUnchanged verifies rejection before mutation.
*/
func TestBreeding_CrossGenusLeavesTreeUnchanged(t *testing.T) {
	f := newFixture(t)
	male := f.add(t, f.guadeloupe, "1", lineage.SexMale, "WF1")
	female := f.add(t, f.mk, "2", lineage.SexFemale, "CBF1")

	before := f.tree.Snapshot()
	request := lineage.BreedingRequest{
		Males:  []int64{male},
		Spawns: []lineage.Spawn{{MotherID: female, Count: 5, Date: lineage.MustDate("2024-05-01")}},
	}

	_, err := lineage.ResolveScope(f.tree, []int64{male, female})
	assert.ErrorIs(t, err, lineage.ErrCrossGenus)

	_, err = lineage.PlanBreeding(f.tree, request)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	next, _, err := lineage.CommitBreeding(f.tree, request, lineage.Decision{NewSpeciesName: "x", NewLineName: "y"})
	assert.Nil(t, next)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	if diff := cmp.Diff(before, f.tree.Snapshot()); diff != "" {
		t.Errorf("tree changed after rejected breeding (-before +after):\n%s", diff)
	}
}

/*
TestPlanBreeding_Validation covers the request rules.
*/
func TestPlanBreeding_Validation(t *testing.T) {
	f := newFixture(t)
	male := f.add(t, f.mk, "1", lineage.SexMale, "CBF1")
	female := f.add(t, f.mk, "2", lineage.SexFemale, "CBF1")
	unknownSex := f.add(t, f.mk, "3", lineage.SexUnspecified, "CBF1")

	tests := []struct {
		name    string
		request lineage.BreedingRequest
		code    string
	}{
		{"no_females", lineage.BreedingRequest{Males: []int64{male}}, "VALIDATION_ERROR"},
		{"male_as_mother", lineage.BreedingRequest{Spawns: []lineage.Spawn{{MotherID: male, Count: 1}}}, "VALIDATION_ERROR"},
		{"female_as_father", lineage.BreedingRequest{Males: []int64{female}, Spawns: []lineage.Spawn{{MotherID: female, Count: 1}}}, "VALIDATION_ERROR"},
		{"unspecified_mother", lineage.BreedingRequest{Spawns: []lineage.Spawn{{MotherID: unknownSex, Count: 1}}}, "VALIDATION_ERROR"},
		{"zero_counts", lineage.BreedingRequest{Spawns: []lineage.Spawn{{MotherID: female, Count: 0}}}, "VALIDATION_ERROR"},
		{"negative_count", lineage.BreedingRequest{Spawns: []lineage.Spawn{{MotherID: female, Count: -2}}}, "VALIDATION_ERROR"},
		{"unknown_mother", lineage.BreedingRequest{Spawns: []lineage.Spawn{{MotherID: 9999, Count: 1}}}, "NOT_FOUND"},
		{"unknown_male", lineage.BreedingRequest{Males: []int64{9999}, Spawns: []lineage.Spawn{{MotherID: female, Count: 1}}}, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lineage.PlanBreeding(f.tree, tt.request)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

/*
TestCommitBreeding_Normal places offspring in the mother's line with
incremented generations and a global management counter.
*/
func TestCommitBreeding_Normal(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.palawan, "3", lineage.SexMale, "CBF1")
	f.add(t, f.guadeloupe, "7", lineage.SexFemale, "CBF1")
	male := f.add(t, f.mk, "2", lineage.SexMale, "WF2")
	female := f.add(t, f.mk, "A-1", lineage.SexFemale, "WF1")
	secondFemale := f.add(t, f.mk, "1", lineage.SexFemale, "CBF4")

	request := lineage.BreedingRequest{
		Males: []int64{male},
		Spawns: []lineage.Spawn{
			{MotherID: female, Count: 2, Date: lineage.MustDate("2024-06-01")},
			{MotherID: secondFemale, Count: 1, Date: lineage.MustDate("2024-06-03")},
		},
	}

	plan, err := lineage.PlanBreeding(f.tree, request)
	require.NoError(t, err)
	assert.Equal(t, lineage.ScopeNormal, plan.Scope)
	assert.False(t, plan.DecisionRequired)
	assert.Equal(t, 3, plan.OffspringCount)

	next, result, err := lineage.CommitBreeding(f.tree, request, lineage.Decision{})
	require.NoError(t, err)
	require.Len(t, result.OffspringIDs, 3)
	assert.Zero(t, result.NewLineID)

	numbers := make([]string, 0, 3)
	for _, id := range result.OffspringIDs {
		offspring, err := next.Individual(id)
		require.NoError(t, err)
		numbers = append(numbers, offspring.ManagementNumber)
		assert.Equal(t, f.mk, offspring.LineID)
		assert.Equal(t, lineage.SexUnspecified, offspring.Sex)
	}
	// Existing numeric numbers are {3, 7, 2, 1}; "A-1" is ignored.
	assert.Equal(t, []string{"8", "9", "10"}, numbers)

	first, _ := next.Individual(result.OffspringIDs[0])
	assert.Equal(t, "WF3", first.Generation)
	assert.Equal(t, "father: hopei MK 2, mother: hopei MK A-1", first.ParentInfo)
	assert.Equal(t, "2024-06-01", first.LarvaHatchDate.String())

	last, _ := next.Individual(result.OffspringIDs[2])
	assert.Equal(t, "CBF5", last.Generation)
	assert.Equal(t, "2024-06-03", last.LarvaHatchDate.String())

	assert.Len(t, f.tree.Individuals, 5, "input tree must not change")
}

/*
TestCommitBreeding_NoFather forces CBF and omits the father segment.
*/
func TestCommitBreeding_NoFather(t *testing.T) {
	f := newFixture(t)
	female := f.add(t, f.mk, "4", lineage.SexFemale, "WF2")

	next, result, err := lineage.CommitBreeding(f.tree, lineage.BreedingRequest{
		Spawns: []lineage.Spawn{{MotherID: female, Count: 1}},
	}, lineage.Decision{})
	require.NoError(t, err)

	offspring, _ := next.Individual(result.OffspringIDs[0])
	assert.Equal(t, "CBF3", offspring.Generation)
	assert.Equal(t, "mother: hopei MK 4", offspring.ParentInfo)
	assert.Equal(t, "5", offspring.ManagementNumber)
}

/*
TestCommitBreeding_InterLine covers both answers to the new-line question.
*/
func TestCommitBreeding_InterLine(t *testing.T) {
	f := newFixture(t)
	male := f.add(t, f.mk, "1", lineage.SexMale, "CBF3")
	female := f.add(t, f.ikeda, "2", lineage.SexFemale, "CBF2")
	request := lineage.BreedingRequest{
		Males:  []int64{male},
		Spawns: []lineage.Spawn{{MotherID: female, Count: 2}},
	}

	plan, err := lineage.PlanBreeding(f.tree, request)
	require.NoError(t, err)
	assert.Equal(t, lineage.ScopeInterLine, plan.Scope)
	assert.True(t, plan.DecisionRequired)
	assert.Equal(t, "MK x Ikeda", plan.SuggestedLineName)
	assert.Equal(t, f.hopei, plan.SpeciesID)

	t.Run("decline", func(t *testing.T) {
		next, result, err := lineage.CommitBreeding(f.tree, request, lineage.Decision{CreateNewLine: false})
		require.NoError(t, err)
		offspring, _ := next.Individual(result.OffspringIDs[0])
		assert.Equal(t, f.ikeda, offspring.LineID)
		assert.Equal(t, "CBF4", offspring.Generation)
	})

	t.Run("create_requires_name", func(t *testing.T) {
		_, _, err := lineage.CommitBreeding(f.tree, request, lineage.Decision{CreateNewLine: true, NewLineName: "  "})
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("create", func(t *testing.T) {
		next, result, err := lineage.CommitBreeding(f.tree, request, lineage.Decision{CreateNewLine: true, NewLineName: "MK x Ikeda"})
		require.NoError(t, err)
		require.NotZero(t, result.NewLineID)

		line := next.Lines[result.NewLineID]
		assert.Equal(t, f.hopei, line.SpeciesID)
		assert.Equal(t, lineage.DefaultBottleChangeInterval, line.BottleChangeInterval)

		for _, id := range result.OffspringIDs {
			offspring, _ := next.Individual(id)
			assert.Equal(t, result.NewLineID, offspring.LineID)
			assert.Equal(t, "CBF1", offspring.Generation)
		}
	})
}

/*
TestCommitBreeding_InterSpecies creates one species with one line for the batch.
*/
func TestCommitBreeding_InterSpecies(t *testing.T) {
	f := newFixture(t)
	male := f.add(t, f.palawan, "1", lineage.SexMale, "WF1")
	female := f.add(t, f.mk, "2", lineage.SexFemale, "WF1")
	secondFemale := f.add(t, f.ikeda, "3", lineage.SexFemale, "WF2")

	request := lineage.BreedingRequest{
		Males: []int64{male},
		Spawns: []lineage.Spawn{
			{MotherID: female, Count: 1},
			{MotherID: secondFemale, Count: 2},
		},
	}

	plan, err := lineage.PlanBreeding(f.tree, request)
	require.NoError(t, err)
	assert.Equal(t, lineage.ScopeInterSpecies, plan.Scope)
	assert.Equal(t, "titanus x hopei", plan.SuggestedSpeciesName)
	assert.Equal(t, "Palawan x MK", plan.SuggestedLineName)

	_, _, err = lineage.CommitBreeding(f.tree, request, lineage.Decision{NewLineName: "F1"})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"), "species name is mandatory")

	next, result, err := lineage.CommitBreeding(f.tree, request, lineage.Decision{NewSpeciesName: "titanus x hopei", NewLineName: "F1"})
	require.NoError(t, err)

	assert.Len(t, next.Species, len(f.tree.Species)+1)
	assert.Len(t, next.Lines, len(f.tree.Lines)+1)
	assert.Equal(t, f.dorcus, next.Species[result.NewSpeciesID].GenusID)
	assert.Equal(t, result.NewSpeciesID, next.Lines[result.NewLineID].SpeciesID)

	require.Len(t, result.OffspringIDs, 3)
	for _, id := range result.OffspringIDs {
		offspring, _ := next.Individual(id)
		assert.Equal(t, result.NewLineID, offspring.LineID)
		assert.Equal(t, "WF1", offspring.Generation)
	}
}
