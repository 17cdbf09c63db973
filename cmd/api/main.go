// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Kumiko HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/kumiko/internal/api"
	"github.com/taibuivan/kumiko/internal/core/collection"
	"github.com/taibuivan/kumiko/internal/core/composition"
	"github.com/taibuivan/kumiko/internal/core/record"
	"github.com/taibuivan/kumiko/internal/core/workspace"
	"github.com/taibuivan/kumiko/internal/engine"
	"github.com/taibuivan/kumiko/internal/platform/config"
	"github.com/taibuivan/kumiko/internal/platform/constants"
	"github.com/taibuivan/kumiko/internal/platform/migration"
	pgstore "github.com/taibuivan/kumiko/internal/platform/postgres"
	redisstore "github.com/taibuivan/kumiko/internal/platform/redis"
	"github.com/taibuivan/kumiko/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel("info"),
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kumiko"))
	slog.SetDefault(log)

	log.Info("[Kumiko] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.LogLevel != "info" {
		leveledLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel(cfg.LogLevel),
		}))
		log = leveledLog.With(slog.String("app", "kumiko"))
		slog.SetDefault(log)
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	workspaceRepository := workspace.NewPostgresRepository(pool)
	workspaceService := workspace.NewService(workspaceRepository, log)

	collectionRepository := collection.NewPostgresRepository(pool)
	collectionService := collection.NewService(collectionRepository, log)
	collectionHandler := collection.NewHandler(collectionService)

	recordRepository := record.NewPostgresRepository(pool)
	recordService := record.NewService(recordRepository, collectionRepository, log)
	recordHandler := record.NewHandler(recordService)

	lookupCache := composition.NewRedisLookupCache(rdb, constants.LookupCacheTTL, log)
	compositionRepository := composition.NewPostgresRepository(pool)
	compositionService := composition.NewService(
		compositionRepository,
		workspaceService,
		collectionService,
		engine.NewPgxExecutor(pool),
		lookupCache,
		log,
	)
	compositionHandler := composition.NewHandler(compositionService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Collection:  collectionHandler,
		Record:      recordHandler,
		Composition: compositionHandler,
	}

	server := api.NewServer(startupCtx, cfg, log, jwtSvc, workspaceService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// logLevel maps the LOG_LEVEL setting onto slog levels, defaulting to Info
// for unknown values.
func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
