// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/constants"
	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
)

// CachedRepository keeps encoded snapshots in Redis in front of another [Repository].
//
// Reads go through the cache; writes hit the backing store first and then
// refresh the cache entry. Redis failures are logged and never fail the call.
type CachedRepository struct {
	next    Repository
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCachedRepository wraps next with a Redis snapshot cache.
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, recorder *metrics.Metrics, logger *slog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &CachedRepository{next: next, client: client, ttl: ttl, metrics: recorder, logger: logger}
}

func cacheKey(owner string) string {
	return constants.RedisPrefixCollection + owner
}

/*
Load serves the snapshot from Redis when present and valid.

Parameters:
  - context: context.Context
  - owner: string

Returns:
  - *lineage.Tree: The collection
  - error: Failures of the backing store only
*/
func (repository *CachedRepository) Load(context context.Context, owner string) (*lineage.Tree, error) {
	payload, err := repository.client.Get(context, cacheKey(owner)).Bytes()
	switch {
	case err == nil:
		tree, decodeErr := decode(owner, payload)
		if decodeErr == nil {
			repository.metrics.Cache(true)
			return tree, nil
		}
		repository.logger.Warn("collection_cache_corrupt", slog.String("owner", owner), slog.Any("error", decodeErr))
	case !errors.Is(err, redis.Nil):
		repository.logger.Warn("collection_cache_read_failed", slog.String("owner", owner), slog.Any("error", err))
	}
	repository.metrics.Cache(false)

	tree, err := repository.next.Load(context, owner)
	if err != nil {
		return nil, err
	}
	repository.store(context, tree)
	return tree, nil
}

// Save writes through to the backing store, then refreshes the cache.
func (repository *CachedRepository) Save(context context.Context, tree *lineage.Tree) error {
	if err := repository.next.Save(context, tree); err != nil {
		return err
	}
	repository.store(context, tree)
	return nil
}

// ListOwners is always answered by the backing store.
func (repository *CachedRepository) ListOwners(context context.Context) ([]string, error) {
	return repository.next.ListOwners(context)
}

// Delete removes the snapshot and evicts the cache entry.
func (repository *CachedRepository) Delete(context context.Context, owner string) error {
	if err := repository.next.Delete(context, owner); err != nil {
		return err
	}
	if err := repository.client.Del(context, cacheKey(owner)).Err(); err != nil {
		repository.logger.Warn("collection_cache_evict_failed", slog.String("owner", owner), slog.Any("error", err))
	}
	return nil
}

func (repository *CachedRepository) store(context context.Context, tree *lineage.Tree) {
	payload, err := encode(tree)
	if err == nil {
		err = repository.client.Set(context, cacheKey(tree.Owner), payload, repository.ttl).Err()
	}
	if err != nil {
		repository.logger.Warn("collection_cache_write_failed", slog.String("owner", tree.Owner), slog.Any("error", err))
	}
}
