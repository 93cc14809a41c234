// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collection stores breeding collections and exposes their use cases.

Every owner has exactly one collection. It is persisted as a single versioned
snapshot of the [lineage.Tree] and rewritten as a whole on each mutation.

Architecture:

  - Repository: Load/Save of whole snapshots (PostgreSQL, SQLite, Redis cache).
  - Service: Load → engine operation → Save, serialised per owner.
  - Sweeper: Periodic overdue count published as a gauge.
  - Handler: REST endpoints under /api/v1/collection.
*/
package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
)

// # Data Access

// Repository persists one collection snapshot per owner.
type Repository interface {

	/*
		Load returns the owner's collection.

		Parameters:
		  - context: context.Context
		  - owner: string (User UUID)

		Returns:
		  - *lineage.Tree: The stored collection, or an empty one when none exists
		  - error: Storage or decoding failures
	*/
	Load(context context.Context, owner string) (*lineage.Tree, error)

	/*
		Save replaces the stored collection of tree.Owner.

		Parameters:
		  - context: context.Context
		  - tree: *lineage.Tree

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, tree *lineage.Tree) error

	// ListOwners returns every owner with a stored collection.
	ListOwners(context context.Context) ([]string, error)

	// Delete removes the owner's collection. A missing collection is not an error.
	Delete(context context.Context, owner string) error
}

// # Snapshot Codec

func encode(tree *lineage.Tree) ([]byte, error) {
	payload, err := json.Marshal(tree.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("collection_encode_failed: %w", err)
	}
	return payload, nil
}

// decode restores a stored snapshot. The owner column wins over the payload.
func decode(owner string, payload []byte) (*lineage.Tree, error) {
	var snapshot lineage.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("collection_decode_failed: %w", err)
	}
	snapshot.Owner = owner

	tree, err := lineage.Restore(snapshot)
	if err != nil {
		return nil, fmt.Errorf("collection_restore_failed: %w", err)
	}
	return tree, nil
}
