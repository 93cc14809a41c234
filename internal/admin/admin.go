// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin provides read-only aggregate views across every member's collection.

Collections are loaded concurrently with a bounded worker group. Nothing in this
package mutates a tree.
*/
package admin

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
)

// loadConcurrency bounds how many collections are read at once.
const loadConcurrency = 8

// # Dependencies

// Members lists registered accounts. Satisfied by [*auth.Directory].
type Members interface {
	Members(context context.Context) ([]*auth.Member, error)
}

// Collections loads one owner's tree. Satisfied by the collection service.
type Collections interface {
	Tree(context context.Context, owner string) (*lineage.Tree, error)
}

// # Views

// MemberCollection is one member's collection as shown on the overview.
type MemberCollection struct {
	UserID   string              `json:"userId"`
	Username string              `json:"username"`
	Stats    lineage.Stats       `json:"stats"`
	Genera   []lineage.GenusView `json:"genera"`
}

// OwnedIndividual is an individual tagged with its owner's username.
type OwnedIndividual struct {
	Owner string `json:"owner"`
	lineage.Individual
}

// LineRollup groups every individual of a line name within one species name.
type LineRollup struct {
	Name        string            `json:"name"`
	Individuals []OwnedIndividual `json:"individuals"`
}

// SpeciesRollup groups lines by name.
type SpeciesRollup struct {
	Name  string       `json:"name"`
	Lines []LineRollup `json:"lines"`
}

// GenusRollup groups species by name.
type GenusRollup struct {
	Name    string          `json:"name"`
	Species []SpeciesRollup `json:"species"`
}

// # Service

// Service builds the admin views.
type Service struct {
	members     Members
	collections Collections
	logger      *slog.Logger
}

// NewService constructs an admin [Service].
func NewService(members Members, collections Collections, logger *slog.Logger) *Service {
	return &Service{members: members, collections: collections, logger: logger}
}

type ownedTree struct {
	member *auth.Member
	tree   *lineage.Tree
}

// load reads the trees of the given members in parallel, preserving order.
func (service *Service) load(context context.Context, members []*auth.Member) ([]ownedTree, error) {
	trees := make([]ownedTree, len(members))

	group, groupContext := errgroup.WithContext(context)
	group.SetLimit(loadConcurrency)
	for index, member := range members {
		group.Go(func() error {
			tree, err := service.collections.Tree(groupContext, member.ID)
			if err != nil {
				return err
			}
			trees[index] = ownedTree{member: member, tree: tree}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}

// sortedMembers returns the accounts ordered by username.
func (service *Service) sortedMembers(context context.Context, includeAdmins bool) ([]*auth.Member, error) {
	all, err := service.members.Members(context)
	if err != nil {
		return nil, err
	}

	members := make([]*auth.Member, 0, len(all))
	for _, member := range all {
		if !includeAdmins && member.Role.IsAdmin() {
			continue
		}
		members = append(members, member)
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Username < members[j].Username })
	return members, nil
}

/*
Overview lists every non-admin member with their nested collection and counts.

Returns:
  - []MemberCollection: Ordered by username; members without data have empty genera
  - error: Storage failures
*/
func (service *Service) Overview(context context.Context) ([]MemberCollection, error) {
	members, err := service.sortedMembers(context, false)
	if err != nil {
		return nil, err
	}

	trees, err := service.load(context, members)
	if err != nil {
		return nil, err
	}

	overview := make([]MemberCollection, 0, len(trees))
	for _, owned := range trees {
		overview = append(overview, MemberCollection{
			UserID:   owned.member.ID,
			Username: owned.member.Username,
			Stats:    owned.tree.Stats(),
			Genera:   lineage.View(owned.tree),
		})
	}

	service.logger.Debug("admin_overview_built", slog.Int("members", len(overview)))
	return overview, nil
}

/*
TaxonomyRollup merges every account's taxonomy by name. Genera, species and lines
with the same name from different owners land in the same group; each individual
keeps its owner's username.

Returns:
  - []GenusRollup: Groups sorted by name; individuals sorted by owner then management number
  - error: Storage failures
*/
func (service *Service) TaxonomyRollup(context context.Context) ([]GenusRollup, error) {
	members, err := service.sortedMembers(context, true)
	if err != nil {
		return nil, err
	}

	trees, err := service.load(context, members)
	if err != nil {
		return nil, err
	}

	// genus → species → line → individuals
	index := map[string]map[string]map[string][]OwnedIndividual{}
	for _, owned := range trees {
		for _, genus := range lineage.View(owned.tree) {
			speciesIndex, ok := index[genus.Name]
			if !ok {
				speciesIndex = map[string]map[string][]OwnedIndividual{}
				index[genus.Name] = speciesIndex
			}
			for _, species := range genus.Species {
				lineIndex, ok := speciesIndex[species.Name]
				if !ok {
					lineIndex = map[string][]OwnedIndividual{}
					speciesIndex[species.Name] = lineIndex
				}
				for _, line := range species.Subspecies {
					individuals := lineIndex[line.Name]
					if individuals == nil {
						individuals = []OwnedIndividual{}
					}
					for _, individual := range line.Individuals {
						individuals = append(individuals, OwnedIndividual{Owner: owned.member.Username, Individual: individual})
					}
					lineIndex[line.Name] = individuals
				}
			}
		}
	}

	rollup := make([]GenusRollup, 0, len(index))
	for _, genusName := range sortedKeys(index) {
		genus := GenusRollup{Name: genusName, Species: []SpeciesRollup{}}
		for _, speciesName := range sortedKeys(index[genusName]) {
			species := SpeciesRollup{Name: speciesName, Lines: []LineRollup{}}
			for _, lineName := range sortedKeys(index[genusName][speciesName]) {
				individuals := index[genusName][speciesName][lineName]
				sort.SliceStable(individuals, func(i, j int) bool {
					if individuals[i].Owner != individuals[j].Owner {
						return individuals[i].Owner < individuals[j].Owner
					}
					return individuals[i].ManagementNumber < individuals[j].ManagementNumber
				})
				species.Lines = append(species.Lines, LineRollup{Name: lineName, Individuals: individuals})
			}
			genus.Species = append(genus.Species, species)
		}
		rollup = append(rollup, genus)
	}
	return rollup, nil
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
