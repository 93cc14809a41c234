// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
)

// # Overdue Sweeper

// Sweeper periodically counts overdue bottle changes across every collection.
type Sweeper struct {
	repository Repository
	interval   time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
	clock      func() time.Time
}

// NewSweeper constructs a [Sweeper]. A non-positive interval defaults to 15 minutes.
func NewSweeper(repository Repository, interval time.Duration, recorder *metrics.Metrics, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		repository: repository,
		interval:   interval,
		metrics:    recorder,
		logger:     logger,
		clock:      time.Now,
	}
}

// WithClock replaces the time source.
func (sweeper *Sweeper) WithClock(clock func() time.Time) *Sweeper {
	sweeper.clock = clock
	return sweeper
}

/*
Run sweeps once immediately and then on every tick until context is cancelled.

Parameters:
  - context: context.Context

Returns:
  - error: Always nil; a failed sweep is logged and retried on the next tick
*/
func (sweeper *Sweeper) Run(context context.Context) error {
	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	sweeper.logger.Info("overdue_sweeper_started", slog.Duration("interval", sweeper.interval))

	for {
		if _, err := sweeper.Sweep(context); err != nil && context.Err() == nil {
			sweeper.logger.Error("overdue_sweep_failed", slog.Any("error", err))
		}

		select {
		case <-context.Done():
			sweeper.logger.Info("overdue_sweeper_stopped")
			return nil
		case <-ticker.C:
		}
	}
}

/*
Sweep counts the overdue individuals of every owner and publishes the total.

Parameters:
  - context: context.Context

Returns:
  - int: Overdue individuals across all collections
  - error: Failure to list owners; unreadable collections are skipped
*/
func (sweeper *Sweeper) Sweep(context context.Context) (int, error) {
	started := time.Now()

	owners, err := sweeper.repository.ListOwners(context)
	if err != nil {
		return 0, err
	}

	now := sweeper.clock()
	total := 0
	for _, owner := range owners {
		if context.Err() != nil {
			return total, context.Err()
		}

		tree, err := sweeper.repository.Load(context, owner)
		if err != nil {
			sweeper.logger.Warn("overdue_sweep_owner_skipped", slog.String("owner", owner), slog.Any("error", err))
			continue
		}
		total += len(lineage.Overdue(tree, now))
	}

	sweeper.metrics.Overdue(total)
	sweeper.logger.Info("overdue_sweep_finished",
		slog.Int("owners", len(owners)),
		slog.Int("overdue", total),
		slog.Duration("took", time.Since(started)),
	)
	return total, nil
}
