// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the SQL files under data/migrations with golang-migrate.

The API server runs [Up] at startup. The beetlectl tool also exposes [Down] and
[Version] for operators.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// State is the schema version recorded in the database.
type State struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// open builds a migrator and returns a closer that logs close failures.
func open(dsn, migrationsPath string, logger *slog.Logger) (*migrate.Migrate, func(), error) {
	migrator, err := migrate.New("file://"+migrationsPath, toPgx5DSN(dsn))
	if err != nil {
		return nil, nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	closer := func() {
		sourceErr, databaseErr := migrator.Close()
		if sourceErr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
		}
		if databaseErr != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", databaseErr))
		}
	}
	return migrator, closer, nil
}

func version(migrator *migrate.Migrate) (State, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return State{Version: current, Dirty: dirty}, nil
}

/*
Up applies every pending migration. A dirty database is refused.

Parameters:
  - dsn: postgres:// URL
  - migrationsPath: Directory holding the .up.sql/.down.sql files
  - logger: *slog.Logger

Returns:
  - State: The version after the run
  - error: Dirty state or a failed migration
*/
func Up(dsn, migrationsPath string, logger *slog.Logger) (State, error) {
	migrator, closer, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return State{}, err
	}
	defer closer()

	before, err := version(migrator)
	if err != nil {
		return State{}, err
	}
	if before.Dirty {
		return before, fmt.Errorf("migration: database is dirty at version %d (manual intervention required)", before.Version)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(before.Version)))
			return before, nil
		}
		return before, fmt.Errorf("migration: up failed: %w", err)
	}

	after, err := version(migrator)
	if err != nil {
		return State{}, err
	}
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(before.Version)),
		slog.Uint64("to_version", uint64(after.Version)),
	)
	return after, nil
}

// Down rolls back the given number of migrations.
func Down(dsn, migrationsPath string, steps int, logger *slog.Logger) (State, error) {
	if steps < 1 {
		return State{}, fmt.Errorf("migration: steps must be positive, got %d", steps)
	}

	migrator, closer, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return State{}, err
	}
	defer closer()

	if err := migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return State{}, fmt.Errorf("migration: down failed: %w", err)
	}

	state, err := version(migrator)
	if err != nil {
		return State{}, err
	}
	logger.Info("migration_rolled_back", slog.Int("steps", steps), slog.Uint64("version", uint64(state.Version)))
	return state, nil
}

// Version reports the recorded schema version without changing anything.
func Version(dsn, migrationsPath string, logger *slog.Logger) (State, error) {
	migrator, closer, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return State{}, err
	}
	defer closer()
	return version(migrator)
}

// toPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_log", slog.String("message", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
