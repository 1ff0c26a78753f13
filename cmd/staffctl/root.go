package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/config"
	"github.com/spec-kit/staff-registry/internal/observability"
	"github.com/spec-kit/staff-registry/internal/persistence"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "staffctl",
		Short:        "Staff registry operations: migrations, reference seed, roster export",
		SilenceUsage: true,
	}
	cmd.AddCommand(newMigrateCmd(), newSeedCmd(), newExportCmd())
	return cmd
}

// env is the configuration and connections shared by every command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(config.LoggerConfig{Level: cfg.Logger.Level, Format: "console"})
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, pg: pg}, nil
}

func (e *env) Close() {
	e.pg.Close()
	_ = e.logger.Sync()
}
