// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/dberr"
)

// SQLiteRepository implements [Repository] on a single SQLite table of JSON blobs.
// It serves local development and the beetlectl tool.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps an open database. The caller owns db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

/*
OpenSQLite opens (creating when needed) the database file and its table.

Parameters:
  - context: context.Context
  - path: string (file path, or ":memory:")

Returns:
  - *SQLiteRepository: Ready store; Close releases the file
  - error: Filesystem or schema failures
*/
func OpenSQLite(context context.Context, path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlite_mkdir_failed: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite_open_failed: %w", err)
	}

	// One writer at a time; SQLite locks the whole file anyway.
	db.SetMaxOpenConns(1)

	repository := NewSQLiteRepository(db)
	if err := repository.Migrate(context); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repository, nil
}

// Migrate creates the collection table when missing.
func (repository *SQLiteRepository) Migrate(context context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS collection (
		owner      TEXT PRIMARY KEY,
		snapshot   BLOB NOT NULL,
		version    INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := repository.db.ExecContext(context, query); err != nil {
		return fmt.Errorf("sqlite_migrate_failed: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (repository *SQLiteRepository) Close() error {
	return repository.db.Close()
}

// Ping reports whether the database file is reachable.
func (repository *SQLiteRepository) Ping(context context.Context) error {
	return repository.db.PingContext(context)
}

// Load reads the snapshot of one owner, or an empty tree.
func (repository *SQLiteRepository) Load(context context.Context, owner string) (*lineage.Tree, error) {
	const query = `SELECT snapshot FROM collection WHERE owner = ?`

	var payload []byte
	err := repository.db.QueryRowContext(context, query, owner).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return lineage.NewTree(owner), nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "load_collection")
	}

	return decode(owner, payload)
}

// Save upserts the whole snapshot of tree.Owner.
func (repository *SQLiteRepository) Save(context context.Context, tree *lineage.Tree) error {
	const query = `
		INSERT INTO collection (owner, snapshot, version, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner) DO UPDATE
		SET snapshot = excluded.snapshot, version = excluded.version, updated_at = CURRENT_TIMESTAMP
	`

	payload, err := encode(tree)
	if err != nil {
		return err
	}

	if _, err := repository.db.ExecContext(context, query, tree.Owner, payload, lineage.SnapshotVersion); err != nil {
		return dberr.Wrap(err, "save_collection")
	}
	return nil
}

// ListOwners returns every owner in ascending order.
func (repository *SQLiteRepository) ListOwners(context context.Context) ([]string, error) {
	const query = `SELECT owner FROM collection ORDER BY owner`

	rows, err := repository.db.QueryContext(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_collection_owners")
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, dberr.Wrap(err, "scan_collection_owner")
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_collection_owners")
	}
	return owners, nil
}

// Delete removes one owner's snapshot.
func (repository *SQLiteRepository) Delete(context context.Context, owner string) error {
	const query = `DELETE FROM collection WHERE owner = ?`

	if _, err := repository.db.ExecContext(context, query, owner); err != nil {
		return dberr.Wrap(err, "delete_collection")
	}
	return nil
}
