package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// ReferenceRepository reads the role and location lookups.
type ReferenceRepository interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetRole(ctx context.Context, code string) (*domain.Role, error)
	GetLocation(ctx context.Context, code string) (*domain.Location, error)
}

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository builds the repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, label FROM role ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.Code, &role.Label); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *referenceRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, timezone FROM location ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.Code, &loc.Name, &loc.Timezone); err != nil {
			return nil, err
		}
		result = append(result, loc)
	}
	return result, rows.Err()
}

func (r *referenceRepository) GetRole(ctx context.Context, code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.pool.QueryRow(ctx, `SELECT code, label FROM role WHERE code=$1`, code).
		Scan(&role.Code, &role.Label); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *referenceRepository) GetLocation(ctx context.Context, code string) (*domain.Location, error) {
	var loc domain.Location
	if err := r.pool.QueryRow(ctx, `SELECT code, name, timezone FROM location WHERE code=$1`, code).
		Scan(&loc.Code, &loc.Name, &loc.Timezone); err != nil {
		return nil, err
	}
	return &loc, nil
}
