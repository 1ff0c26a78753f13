package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// SeedResult summarizes a seed run.
type SeedResult struct {
	Roles           int
	Locations       int
	PrunedRoles     int64
	PrunedLocations int64
}

// SeedReferenceData upserts the default roles and locations, then removes
// codes outside those sets that no assignment references.
func SeedReferenceData(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (SeedResult, error) {
	var result SeedResult
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed")
		return result, nil
	}

	roles := domain.DefaultRoles()
	locations := domain.DefaultLocations()

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		roleCodes := make([]string, 0, len(roles))
		for _, role := range roles {
			if _, err := tx.Exec(ctx, `
                INSERT INTO role (code, label) VALUES ($1, $2)
                ON CONFLICT (code) DO UPDATE SET label = EXCLUDED.label`, role.Code, role.Label); err != nil {
				return fmt.Errorf("seed role %s: %w", role.Code, err)
			}
			roleCodes = append(roleCodes, role.Code)
		}

		locationCodes := make([]string, 0, len(locations))
		for _, loc := range locations {
			if _, err := tx.Exec(ctx, `
                INSERT INTO location (code, name, timezone) VALUES ($1, $2, $3)
                ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, timezone = EXCLUDED.timezone`,
				loc.Code, loc.Name, loc.Timezone); err != nil {
				return fmt.Errorf("seed location %s: %w", loc.Code, err)
			}
			locationCodes = append(locationCodes, loc.Code)
		}

		tag, err := tx.Exec(ctx, `
            DELETE FROM role r
            WHERE r.code <> ALL($1)
              AND NOT EXISTS (SELECT 1 FROM staff_role_assignment a WHERE a.role_code = r.code)`, roleCodes)
		if err != nil {
			return fmt.Errorf("prune roles: %w", err)
		}
		result.PrunedRoles = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `
            DELETE FROM location l
            WHERE l.code <> ALL($1)
              AND NOT EXISTS (SELECT 1 FROM staff_role_assignment a WHERE a.location_code = l.code)`, locationCodes)
		if err != nil {
			return fmt.Errorf("prune locations: %w", err)
		}
		result.PrunedLocations = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return result, err
	}

	result.Roles = len(roles)
	result.Locations = len(locations)
	logger.Info("reference data seeded",
		zap.Int("roles", result.Roles),
		zap.Int("locations", result.Locations),
		zap.Int64("pruned_roles", result.PrunedRoles),
		zap.Int64("pruned_locations", result.PrunedLocations),
	)
	return result, nil
}
