// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/beetlekeeper/internal/collection"
	"github.com/taibuivan/beetlekeeper/internal/platform/config"
	pgstore "github.com/taibuivan/beetlekeeper/internal/platform/postgres"
)

// storeConfig loads and validates the persistence settings.
func (a *app) storeConfig() (*config.StoreConfig, error) {
	cfg, err := a.loadStore()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pool opens PostgreSQL. Accounts and migrations always need it.
func (a *app) pool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := a.loadStore()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for this command")
	}
	return pgstore.NewPool(ctx, cfg.DatabaseURL, a.logger)
}

// collections opens the configured collection store and wraps it in a service.
// Images and listing publication are not available from the command line.
func (a *app) collections(ctx context.Context) (*collection.Service, collection.Repository, func(), error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		repository collection.Repository
		closer     func()
	)
	switch cfg.Driver {
	case config.StoreDriverSQLite:
		sqliteRepository, err := collection.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		repository = sqliteRepository
		closer = func() { _ = sqliteRepository.Close() }
	default:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, a.logger)
		if err != nil {
			return nil, nil, nil, err
		}
		repository = collection.NewPostgresRepository(pool)
		closer = pool.Close
	}

	service := collection.NewService(repository, nil, nil, nil, a.logger).WithClock(a.clock)
	return service, repository, closer, nil
}
