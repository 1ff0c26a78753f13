package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/persistence"
	"github.com/spec-kit/staff-registry/internal/repository"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the default roles and locations and drop the reference cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := persistence.SeedReferenceData(cmd.Context(), e.pg.PoolHandle(), e.logger)
			if err != nil {
				return err
			}

			redis := persistence.NewRedis(e.cfg.Redis, e.logger)
			defer redis.Close()
			if err := repository.InvalidateReferenceCache(cmd.Context(), redis.Handle()); err != nil {
				e.logger.Warn("reference cache not invalidated", zap.Error(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "roles=%d locations=%d pruned_roles=%d pruned_locations=%d\n",
				res.Roles, res.Locations, res.PrunedRoles, res.PrunedLocations)
			return nil
		},
	}
	return cmd
}
