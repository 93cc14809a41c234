// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/admin"
	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/ctxutil"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
)

// # Fakes

type stubMembers []*auth.Member

func (members stubMembers) Members(context.Context) ([]*auth.Member, error) {
	return members, nil
}

type stubCollections struct {
	trees map[string]*lineage.Tree
	err   error
}

func (collections *stubCollections) Tree(_ context.Context, owner string) (*lineage.Tree, error) {
	if collections.err != nil {
		return nil, collections.err
	}
	if tree, ok := collections.trees[owner]; ok {
		return tree, nil
	}
	return lineage.NewTree(owner), nil
}

// grow adds count individuals to genus/species/line of a fresh or existing tree.
func grow(t *testing.T, tree *lineage.Tree, genus, species, line string, count int) *lineage.Tree {
	t.Helper()
	tree, lineID, err := lineage.AdoptTaxonomy(tree, genus, species, line)
	require.NoError(t, err)
	for range count {
		tree, _, err = lineage.AddIndividual(tree, lineID)
		require.NoError(t, err)
	}
	return tree
}

func newService(t *testing.T) (*admin.Service, *stubCollections) {
	t.Helper()

	members := stubMembers{
		{ID: "u-root", Username: "root", Role: sec.RoleAdmin},
		{ID: "u-carol", Username: "carol", Role: sec.RoleMember},
		{ID: "u-bob", Username: "bob", Role: sec.RoleMember},
		{ID: "u-alice", Username: "alice", Role: sec.RoleMember},
	}

	alice := grow(t, lineage.NewTree("u-alice"), "Dorcus", "hopei", "MK", 2)

	bob := grow(t, lineage.NewTree("u-bob"), "Dorcus", "hopei", "MK", 1)
	bob = grow(t, bob, "Dynastes", "hercules", "Guadeloupe", 1)

	root := grow(t, lineage.NewTree("u-root"), "Dorcus", "titanus", "Palawan", 1)

	collections := &stubCollections{trees: map[string]*lineage.Tree{
		"u-alice": alice,
		"u-bob":   bob,
		"u-root":  root,
	}}
	return admin.NewService(members, collections, slog.New(slog.NewTextHandler(io.Discard, nil))), collections
}

// # Tests

/*
TestService_Overview verifies that administrators are hidden and members are
listed by username with their counts.
*/
func TestService_Overview(t *testing.T) {
	service, _ := newService(t)

	overview, err := service.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview, 3)

	assert.Equal(t, []string{"alice", "bob", "carol"},
		[]string{overview[0].Username, overview[1].Username, overview[2].Username})

	assert.Equal(t, lineage.Stats{Genera: 1, Species: 1, Lines: 1, Individuals: 2}, overview[0].Stats)
	assert.Equal(t, lineage.Stats{Genera: 2, Species: 2, Lines: 2, Individuals: 2}, overview[1].Stats)
	assert.Equal(t, lineage.Stats{}, overview[2].Stats)
	assert.Empty(t, overview[2].Genera)
	assert.Equal(t, "u-carol", overview[2].UserID)
}

/*
TestService_TaxonomyRollup verifies that same-named groups merge across owners.
*/
func TestService_TaxonomyRollup(t *testing.T) {
	service, _ := newService(t)

	rollup, err := service.TaxonomyRollup(context.Background())
	require.NoError(t, err)
	require.Len(t, rollup, 2)

	dorcus := rollup[0]
	assert.Equal(t, "Dorcus", dorcus.Name)
	require.Len(t, dorcus.Species, 2)
	assert.Equal(t, "hopei", dorcus.Species[0].Name)
	assert.Equal(t, "titanus", dorcus.Species[1].Name)

	mk := dorcus.Species[0].Lines[0]
	assert.Equal(t, "MK", mk.Name)
	require.Len(t, mk.Individuals, 3)

	type owned struct{ owner, number string }
	var got []owned
	for _, individual := range mk.Individuals {
		got = append(got, owned{individual.Owner, individual.ManagementNumber})
	}
	assert.Equal(t, []owned{{"alice", "1"}, {"alice", "2"}, {"bob", "1"}}, got)

	palawan := dorcus.Species[1].Lines[0]
	require.Len(t, palawan.Individuals, 1)
	assert.Equal(t, "root", palawan.Individuals[0].Owner)

	assert.Equal(t, "Dynastes", rollup[1].Name)
}

/*
TestService_LoadFailure verifies that a storage error aborts both views.
*/
func TestService_LoadFailure(t *testing.T) {
	service, collections := newService(t)
	collections.err = errors.New("disk on fire")

	_, err := service.Overview(context.Background())
	assert.ErrorContains(t, err, "disk on fire")

	_, err = service.TaxonomyRollup(context.Background())
	assert.ErrorContains(t, err, "disk on fire")
}

/*
TestHandler_RequiresAdmin verifies the role gate on every route.
*/
func TestHandler_RequiresAdmin(t *testing.T) {
	service, _ := newService(t)
	router := admin.NewHandler(service).Routes()

	tests := []struct {
		name   string
		role   sec.UserRole
		target string
		want   int
	}{
		{"anonymous", "", "/overview", http.StatusUnauthorized},
		{"member", sec.RoleMember, "/overview", http.StatusForbidden},
		{"member_taxonomy", sec.RoleMember, "/taxonomy", http.StatusForbidden},
		{"admin", sec.RoleAdmin, "/overview", http.StatusOK},
		{"admin_taxonomy", sec.RoleAdmin, "/taxonomy", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.role != "" {
				claims := &sec.AuthClaims{UserID: "u-" + string(tt.role), Role: string(tt.role)}
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}
