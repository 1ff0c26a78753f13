package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// DeviceRepository stores push tokens.
type DeviceRepository interface {
	// Upsert registers device keyed by token. Returns pgx.ErrNoRows when the
	// staff member does not exist.
	Upsert(ctx context.Context, device *domain.Device) error
}

type deviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository builds the repository.
func NewDeviceRepository(pool *pgxpool.Pool) DeviceRepository {
	return &deviceRepository{pool: pool}
}

func (r *deviceRepository) Upsert(ctx context.Context, device *domain.Device) error {
	const query = `
        INSERT INTO device (staff_id, platform, token)
        VALUES ($1,$2,$3)
        ON CONFLICT (token) DO UPDATE
        SET staff_id = EXCLUDED.staff_id, platform = EXCLUDED.platform, last_seen_at = now()
        RETURNING id, last_seen_at`

	err := r.pool.QueryRow(ctx, query,
		device.StaffID,
		string(device.Platform),
		device.Token,
	).Scan(&device.ID, &device.LastSeenAt)
	return translatePgError(err)
}
