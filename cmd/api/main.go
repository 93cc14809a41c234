// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the beetlekeeper HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL and run migrations.
//  4. Open the collection store (PostgreSQL or SQLite), optionally behind Redis.
//  5. Open the image store and the metrics registry.
//  6. Wire services and HTTP handlers; bootstrap the administrator.
//  7. Run the HTTP server and the overdue sweeper until a signal arrives.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/beetlekeeper/internal/admin"
	"github.com/taibuivan/beetlekeeper/internal/api"
	"github.com/taibuivan/beetlekeeper/internal/collection"
	"github.com/taibuivan/beetlekeeper/internal/forum"
	"github.com/taibuivan/beetlekeeper/internal/messaging"
	"github.com/taibuivan/beetlekeeper/internal/platform/blob"
	"github.com/taibuivan/beetlekeeper/internal/platform/config"
	"github.com/taibuivan/beetlekeeper/internal/platform/constants"
	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
	"github.com/taibuivan/beetlekeeper/internal/platform/migration"
	pgstore "github.com/taibuivan/beetlekeeper/internal/platform/postgres"
	redisstore "github.com/taibuivan/beetlekeeper/internal/platform/redis"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
	"github.com/taibuivan/beetlekeeper/internal/taxonomy"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store", cfg.Store.Driver),
		slog.String("blob", cfg.Blob.Driver),
	)

	// Startup gets a 30s deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.Store.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	_, err = migration.Up(cfg.Store.DatabaseURL, cfg.Store.MigrationPath, log)
	must(log, err, "run migrations")

	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}

	// ── 4. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	// ── 5. Collection store ───────────────────────────────────────────────
	var repository collection.Repository
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		sqliteRepository, err := collection.OpenSQLite(startupCtx, cfg.Store.SQLitePath)
		must(log, err, "open sqlite store")
		defer func() {
			if cerr := sqliteRepository.Close(); cerr != nil {
				log.Error("sqlite_close_failed", slog.Any("error", cerr))
			}
		}()
		health.CheckStore = sqliteRepository.Ping
		repository = sqliteRepository
	default:
		repository = collection.NewPostgresRepository(pool)
	}

	rdb, err := redisstore.Open(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	if rdb != nil {
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
		repository = collection.NewCachedRepository(repository, rdb, cfg.CacheTTL, recorder, log)
	}

	// ── 6. Image store ────────────────────────────────────────────────────
	blobs, err := blob.Open(startupCtx, cfg.Blob)
	must(log, err, "open blob store")

	var media http.Handler
	if filesystem, ok := blobs.(*blob.FilesystemStore); ok {
		media = http.FileServer(http.Dir(filesystem.Root()))
	}

	// ── 7. Accounts ───────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, auth.NewSessionRepository(pool), tokenService, log)
	directory := auth.NewDirectory(userRepository)

	_, err = authService.EnsureAdmin(startupCtx, cfg.AdminUsername, cfg.AdminPassword)
	must(log, err, "bootstrap administrator")

	// ── 8. Domain wiring ──────────────────────────────────────────────────
	forumService := forum.NewService(forum.NewPostgresRepository(pool), blobs, log)
	collectionService := collection.NewService(repository, blobs, forumService, recorder, log)
	messagingService := messaging.NewService(messaging.NewPostgresRepository(pool), directory, log)
	adminService := admin.NewService(directory, collectionService, log)

	liveness, readiness := api.NewHealthHandlers(health, log)
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Metrics:     metrics.Handler(registry),
		Media:       media,
		MediaPrefix: cfg.Blob.PublicBaseURL,
		Auth:        auth.NewHandler(authService, !cfg.IsDevelopment()),
		Collection:  collection.NewHandler(collectionService),
		Taxonomy:    taxonomy.NewHandler(taxonomy.Default()),
		Forum:       forum.NewHandler(forumService),
		Messaging:   messaging.NewHandler(messagingService),
		Admin:       admin.NewHandler(adminService),
	}

	// ── 9. Run ────────────────────────────────────────────────────────────
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	server := api.NewServer(rootCtx, cfg, log, tokenService, recorder, handlers)
	sweeper := collection.NewSweeper(repository, cfg.OverdueSweepInterval, recorder, log)

	group, groupCtx := errgroup.WithContext(rootCtx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return sweeper.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
		return server.Shutdown(constants.ShutdownTimeout)
	})

	if err := group.Wait(); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "beetlekeeper"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
