// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

/*
TestAddIndividual_NumbersWithinLine verifies the line-local management numbering.
*/
func TestAddIndividual_NumbersWithinLine(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.mk, "7", lineage.SexMale, "CBF1")
	f.add(t, f.mk, "B-12", lineage.SexFemale, "CBF1")
	f.add(t, f.ikeda, "40", lineage.SexFemale, "CBF1")

	next, id, err := lineage.AddIndividual(f.tree, f.mk)
	require.NoError(t, err)

	created, err := next.Individual(id)
	require.NoError(t, err)
	assert.Equal(t, "8", created.ManagementNumber)
	assert.Equal(t, lineage.SexUnspecified, created.Sex)
	assert.Equal(t, "CBF1", created.Generation)
	assert.True(t, created.NextBottleChangeDate.IsZero())

	next, id, err = lineage.AddIndividual(f.tree, f.palawan)
	require.NoError(t, err)
	created, _ = next.Individual(id)
	assert.Equal(t, "1", created.ManagementNumber)

	_, _, err = lineage.AddIndividual(f.tree, 404)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestUpdateIndividual_Validation checks each rejected field and the accepted forms.
*/
func TestUpdateIndividual_Validation(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, f.mk, "1", lineage.SexMale, "CBF1")

	ptr := func(value string) *string { return &value }
	invalidSex := lineage.Sex("hermaphrodite")

	tests := []struct {
		name    string
		patch   lineage.IndividualPatch
		wantErr bool
	}{
		{"blank_management_number", lineage.IndividualPatch{ManagementNumber: ptr("  ")}, true},
		{"unknown_sex", lineage.IndividualPatch{Sex: &invalidSex}, true},
		{"bad_generation", lineage.IndividualPatch{Generation: ptr("F2")}, true},
		{"negative_head_width", lineage.IndividualPatch{HeadWidth: ptr("-1")}, true},
		{"text_head_width", lineage.IndividualPatch{HeadWidth: ptr("wide")}, true},
		{"lowercase_generation", lineage.IndividualPatch{Generation: ptr("wf2")}, false},
		{"decimal_head_width", lineage.IndividualPatch{HeadWidth: ptr("18.5")}, false},
		{"cleared_head_width", lineage.IndividualPatch{HeadWidth: ptr("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := lineage.UpdateIndividual(f.tree, id, tt.patch)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"), "got %v", err)
				assert.Nil(t, next)
				return
			}
			assert.NoError(t, err)
		})
	}

	next, err := lineage.UpdateIndividual(f.tree, id, lineage.IndividualPatch{
		Generation: ptr("wf2"),
		HeadWidth:  ptr("18.5"),
	})
	require.NoError(t, err)
	updated, _ := next.Individual(id)
	assert.Equal(t, "WF2", updated.Generation)
	assert.Equal(t, "18.5", updated.HeadWidth.Decimal.String())
	assert.True(t, updated.HeadWidth.Valid)
}

/*
TestDeleteIndividuals is all or nothing.
*/
func TestDeleteIndividuals(t *testing.T) {
	f := newFixture(t)
	first := f.add(t, f.mk, "1", lineage.SexMale, "CBF1")
	second := f.add(t, f.mk, "2", lineage.SexFemale, "CBF1")

	_, err := lineage.DeleteIndividuals(f.tree, []int64{first, 999})
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
	assert.Len(t, f.tree.Individuals, 2)

	_, err = lineage.DeleteIndividuals(f.tree, nil)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	next, err := lineage.DeleteIndividuals(f.tree, []int64{first, second})
	require.NoError(t, err)
	assert.Empty(t, next.Individuals)
}

/*
TestImages verifies appending and replacing image links.
*/
func TestImages(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, f.mk, "1", lineage.SexMale, "CBF1")

	next, err := lineage.AppendImage(f.tree, id, "/media/a.jpg")
	require.NoError(t, err)
	next, err = lineage.AppendImage(next, id, "/media/b.jpg")
	require.NoError(t, err)

	individual, _ := next.Individual(id)
	assert.Equal(t, []string{"/media/a.jpg", "/media/b.jpg"}, individual.ImageURLs)

	next, err = lineage.SetImages(next, id, []string{" ", "/media/b.jpg"})
	require.NoError(t, err)
	individual, _ = next.Individual(id)
	assert.Equal(t, []string{"/media/b.jpg"}, individual.ImageURLs)

	_, err = lineage.AppendImage(next, id, "")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

/*
TestIndividualCopies_EncodeEmptyLists verifies single and per-line reads
encode empty histories and image lists as [] and never share rows with the tree.
*/
func TestIndividualCopies_EncodeEmptyLists(t *testing.T) {
	f := newFixture(t)
	first := f.add(t, f.mk, "2", lineage.SexMale, "CBF1")
	f.add(t, f.mk, "1", lineage.SexFemale, "CBF1")

	single, err := f.tree.Individual(first)
	require.NoError(t, err)

	rows, err := f.tree.SortedLine(f.mk, lineage.SortManagementNumber, lineage.Ascending)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].ManagementNumber)

	for _, individual := range append([]*lineage.Individual{single}, rows...) {
		encoded, err := json.Marshal(individual)
		require.NoError(t, err)
		assert.Contains(t, string(encoded), `"imageUrls":[]`)
		assert.Contains(t, string(encoded), `"larvaHistory":[]`)
	}

	rows[1].Notes = "edited copy"
	assert.Empty(t, f.get(t, first).Notes)

	_, err = f.tree.SortedLine(404, lineage.SortManagementNumber, lineage.Ascending)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}
