package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// AssignmentRepository reads the assignment ledger and hands out the per-staff
// write lock.
type AssignmentRepository interface {
	ListByStaff(ctx context.Context, staffID string) ([]domain.Assignment, error)
	ResolveCurrent(ctx context.Context, staffID string, day time.Time) (*domain.Assignment, error)
	// WithStaffLock runs fn while holding the staff member's row lock. fn's
	// writes commit together when it returns nil. Returns pgx.ErrNoRows when
	// the staff member does not exist.
	WithStaffLock(ctx context.Context, staffID string, fn func(ctx context.Context, tx LedgerTx) error) error
	// CreateStaff inserts staff and runs fn against the new row. The insert and
	// fn's writes commit together; nothing is kept when fn fails. fn may be nil.
	CreateStaff(ctx context.Context, staff *domain.StaffMember, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the write surface available under the staff lock.
type LedgerTx interface {
	// Staff is the locked record as read at lock time.
	Staff() domain.StaffMember
	// CurrentAt resolves the open assignment on day with the half-open write predicate.
	CurrentAt(ctx context.Context, day time.Time) (*domain.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error)
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	// SetAssignmentEnd overwrites effective_end unconditionally.
	SetAssignmentEnd(ctx context.Context, id int64, end *time.Time) error
	// CloseAssignment sets effective_end to end only while the row is still open
	// past end. It reports whether a row changed.
	CloseAssignment(ctx context.Context, id int64, end time.Time) (bool, error)
	// CloseAssignmentsCovering ends every assignment open past day at day.
	CloseAssignmentsCovering(ctx context.Context, day time.Time) (int64, error)
	SetStaffEndDate(ctx context.Context, end *time.Time) error
	// UpdateStaff writes the editable fields of staff. end_date is left alone
	// and staff is refreshed with the stored row.
	UpdateStaff(ctx context.Context, staff *domain.StaffMember) error
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

const assignmentColumns = `a.id, a.staff_id, a.role_code, r.label, a.location_code,
        a.effective_start, a.effective_end, a.priority, a.created_at`

func (r *assignmentRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.Assignment, error) {
	const query = `
        SELECT ` + assignmentColumns + `
        FROM staff_role_assignment a
        JOIN role r ON r.code = a.role_code
        WHERE a.staff_id = $1
        ORDER BY a.effective_start DESC, a.role_code`

	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) ResolveCurrent(ctx context.Context, staffID string, day time.Time) (*domain.Assignment, error) {
	const query = `
        SELECT ` + assignmentColumns + `
        FROM staff_role_assignment a
        JOIN role r ON r.code = a.role_code
        WHERE a.staff_id = $1
          AND a.effective_start <= $2::date
          AND (a.effective_end IS NULL OR $2::date <= a.effective_end)
        ORDER BY a.priority DESC, a.effective_start DESC, a.id DESC
        LIMIT 1`

	a, err := scanAssignment(r.pool.QueryRow(ctx, query, staffID, domain.Day(day)))
	if IsNotFound(err) {
		return nil, nil
	}
	return a, err
}

func (r *assignmentRepository) WithStaffLock(ctx context.Context, staffID string, fn func(ctx context.Context, tx LedgerTx) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		staff, err := scanStaff(tx.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff s WHERE s.id=$1 FOR UPDATE`, staffID))
		if err != nil {
			return err
		}
		return fn(ctx, &pgLedgerTx{tx: tx, staff: *staff})
	})
}

func (r *assignmentRepository) CreateStaff(ctx context.Context, staff *domain.StaffMember, fn func(ctx context.Context, tx LedgerTx) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if err := insertStaff(ctx, tx, staff); err != nil {
			return err
		}
		if fn == nil {
			return nil
		}
		ltx := &pgLedgerTx{tx: tx, staff: *staff}
		if err := fn(ctx, ltx); err != nil {
			return err
		}
		*staff = ltx.staff
		return nil
	})
}

type pgLedgerTx struct {
	tx    pgx.Tx
	staff domain.StaffMember
}

func (t *pgLedgerTx) Staff() domain.StaffMember {
	return t.staff
}

func (t *pgLedgerTx) CurrentAt(ctx context.Context, day time.Time) (*domain.Assignment, error) {
	const query = `
        SELECT ` + assignmentColumns + `
        FROM staff_role_assignment a
        JOIN role r ON r.code = a.role_code
        WHERE a.staff_id = $1
          AND a.effective_start <= $2::date
          AND (a.effective_end IS NULL OR a.effective_end > $2::date)
        ORDER BY a.priority DESC, a.effective_start DESC, a.id DESC
        LIMIT 1`

	a, err := scanAssignment(t.tx.QueryRow(ctx, query, t.staff.ID, domain.Day(day)))
	if IsNotFound(err) {
		return nil, nil
	}
	return a, err
}

func (t *pgLedgerTx) GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error) {
	const query = `
        SELECT ` + assignmentColumns + `
        FROM staff_role_assignment a
        JOIN role r ON r.code = a.role_code
        WHERE a.id = $1 AND a.staff_id = $2`
	return scanAssignment(t.tx.QueryRow(ctx, query, id, t.staff.ID))
}

func (t *pgLedgerTx) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	const query = `
        INSERT INTO staff_role_assignment (staff_id, role_code, location_code, effective_start, effective_end, priority)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, (SELECT label FROM role WHERE code = $2)`

	a.StaffID = t.staff.ID
	err := t.tx.QueryRow(ctx, query,
		a.StaffID,
		a.RoleCode,
		a.LocationCode,
		a.EffectiveStart,
		a.EffectiveEnd,
		a.Priority,
	).Scan(&a.ID, &a.CreatedAt, &a.RoleLabel)
	return translatePgError(err)
}

func (t *pgLedgerTx) SetAssignmentEnd(ctx context.Context, id int64, end *time.Time) error {
	cmd, err := t.tx.Exec(ctx,
		`UPDATE staff_role_assignment SET effective_end=$1 WHERE id=$2 AND staff_id=$3`,
		end, id, t.staff.ID)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *pgLedgerTx) CloseAssignment(ctx context.Context, id int64, end time.Time) (bool, error) {
	cmd, err := t.tx.Exec(ctx, `
        UPDATE staff_role_assignment
        SET effective_end=$1
        WHERE id=$2 AND staff_id=$3 AND (effective_end IS NULL OR effective_end > $1)`,
		domain.Day(end), id, t.staff.ID)
	if err != nil {
		return false, translatePgError(err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (t *pgLedgerTx) CloseAssignmentsCovering(ctx context.Context, day time.Time) (int64, error) {
	cmd, err := t.tx.Exec(ctx, `
        UPDATE staff_role_assignment
        SET effective_end=$1
        WHERE staff_id=$2
          AND effective_start <= $1
          AND (effective_end IS NULL OR $1 < effective_end)`,
		domain.Day(day), t.staff.ID)
	if err != nil {
		return 0, translatePgError(err)
	}
	return cmd.RowsAffected(), nil
}

func (t *pgLedgerTx) SetStaffEndDate(ctx context.Context, end *time.Time) error {
	err := t.tx.QueryRow(ctx,
		`UPDATE staff SET end_date=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`,
		end, t.staff.ID).Scan(&t.staff.UpdatedAt)
	if err != nil {
		return translatePgError(err)
	}
	t.staff.EndDate = end
	return nil
}

func (t *pgLedgerTx) UpdateStaff(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff
        SET given_name=$1, family_name=$2, display_name=$3, mobile=$4, email=$5, start_date=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING end_date, created_at, updated_at`

	staff.ID = t.staff.ID
	err := t.tx.QueryRow(ctx, query,
		staff.GivenName,
		staff.FamilyName,
		staff.DisplayName,
		staff.Mobile,
		staff.Email,
		staff.StartDate,
		staff.ID,
	).Scan(&staff.EndDate, &staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		return translatePgError(err)
	}
	t.staff = *staff
	return nil
}

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	if err := row.Scan(
		&a.ID,
		&a.StaffID,
		&a.RoleCode,
		&a.RoleLabel,
		&a.LocationCode,
		&a.EffectiveStart,
		&a.EffectiveEnd,
		&a.Priority,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
