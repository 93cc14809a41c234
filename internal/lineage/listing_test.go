// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

/*
TestComposeSaleListing renders blocks in management number order.
*/
func TestComposeSaleListing(t *testing.T) {
	f := newFixture(t)
	second := f.add(t, f.mk, "12", lineage.SexFemale, "CBF2")
	first := f.add(t, f.mk, "3", lineage.SexMale, "CBF2")

	width := "21.4"
	hatch := lineage.MustDate("2024-09-01")
	tree, err := lineage.UpdateIndividual(f.tree, first, lineage.IndividualPatch{HeadWidth: &width, HatchDate: &hatch})
	require.NoError(t, err)

	listing, err := lineage.ComposeSaleListing(tree, f.mk, []int64{second, first, second})
	require.NoError(t, err)

	assert.Equal(t, "[For sale] MK: 2 individuals", listing.Title)
	assert.True(t, strings.HasPrefix(listing.Body, "Hello, the following individuals are up for sale.\n\n"))
	assert.True(t, strings.HasSuffix(listing.Body, "please leave a comment or send me a message."))
	assert.Less(t, strings.Index(listing.Body, "Management number: 3"), strings.Index(listing.Body, "Management number: 12"))
	assert.Contains(t, listing.Body, "- L3 head width: 21.4mm")
	assert.Contains(t, listing.Body, "- Eclosion date: 2024-09-01")
	assert.Contains(t, listing.Body, "- Parents: -")

	single, err := lineage.ComposeSaleListing(tree, f.mk, []int64{first})
	require.NoError(t, err)
	assert.Equal(t, "[For sale] MK: 1 individual", single.Title)
}

/*
TestComposeSaleListing_Rejects refuses individuals outside the line.
*/
func TestComposeSaleListing_Rejects(t *testing.T) {
	f := newFixture(t)
	other := f.add(t, f.ikeda, "1", lineage.SexMale, "CBF1")

	_, err := lineage.ComposeSaleListing(f.tree, f.mk, []int64{other})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = lineage.ComposeSaleListing(f.tree, f.mk, nil)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = lineage.ComposeSaleListing(f.tree, 404, []int64{other})
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}
