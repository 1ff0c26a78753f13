package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/app"
	"github.com/spec-kit/staff-registry/internal/config"
	"github.com/spec-kit/staff-registry/internal/observability"
	"github.com/spec-kit/staff-registry/internal/persistence"
	"github.com/spec-kit/staff-registry/internal/repository/memory"
	"github.com/spec-kit/staff-registry/internal/service"
	"github.com/spec-kit/staff-registry/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if _, err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		if cfg.Postgres.SeedOnStart {
			if _, err := persistence.SeedReferenceData(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to seed reference data", zap.Error(err))
			}
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	stores := app.MemoryStores(memory.NewStore())
	if pg.Enabled() {
		stores = app.PostgresStores(pg.PoolHandle())
	}
	cacheClient := redis.Handle()
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("reference cache disabled", zap.Error(err))
		cacheClient = nil
	}
	stores = stores.WithReferenceCache(cfg.Redis, cacheClient, logger, metrics)

	services := app.NewServices(stores, service.NewClock(cfg.App.Location()), logger, metrics)
	worker.StartActivityWorker(services.Activity)

	server, err := app.NewHTTPApp(app.HTTPDependencies{
		Config:   *cfg,
		Services: services,
		Postgres: pg,
		Redis:    redis,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		logger.Fatal("failed to build http app", zap.Error(err))
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("postgres", pg.Enabled()))
		if err := server.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
