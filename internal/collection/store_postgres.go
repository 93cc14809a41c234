// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the beetle.collection table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed collection store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Load reads the jsonb snapshot of one owner.

Parameters:
  - context: context.Context
  - owner: string

Returns:
  - *lineage.Tree: Stored or empty collection
  - error: Database or decoding failures
*/
func (repository *PostgresRepository) Load(context context.Context, owner string) (*lineage.Tree, error) {
	const query = `SELECT snapshot FROM beetle.collection WHERE ownerid = $1`

	var payload []byte
	err := repository.db.QueryRow(context, query, owner).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return lineage.NewTree(owner), nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "load_collection")
	}

	return decode(owner, payload)
}

/*
Save upserts the whole snapshot.

Parameters:
  - context: context.Context
  - tree: *lineage.Tree

Returns:
  - error: Database failures
*/
func (repository *PostgresRepository) Save(context context.Context, tree *lineage.Tree) error {
	const query = `
		INSERT INTO beetle.collection (ownerid, snapshot, version, updatedat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ownerid) DO UPDATE
		SET snapshot = EXCLUDED.snapshot, version = EXCLUDED.version, updatedat = NOW()
	`

	payload, err := encode(tree)
	if err != nil {
		return err
	}

	if _, err := repository.db.Exec(context, query, tree.Owner, payload, lineage.SnapshotVersion); err != nil {
		return dberr.Wrap(err, "save_collection")
	}
	return nil
}

// ListOwners returns every owner id in ascending order.
func (repository *PostgresRepository) ListOwners(context context.Context) ([]string, error) {
	const query = `SELECT ownerid::text FROM beetle.collection ORDER BY ownerid`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_collection_owners")
	}

	owners, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_collection_owners")
	}
	return owners, nil
}

// Delete removes one owner's snapshot.
func (repository *PostgresRepository) Delete(context context.Context, owner string) error {
	const query = `DELETE FROM beetle.collection WHERE ownerid = $1`

	if _, err := repository.db.Exec(context, query, owner); err != nil {
		return dberr.Wrap(err, "delete_collection")
	}
	return nil
}
