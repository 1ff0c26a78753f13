package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// StaffRepository handles persistence for staff members. Inserts and field
// updates go through AssignmentRepository so they share the staff lock.
type StaffRepository interface {
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.StaffMember, error)
	// ListAsOf returns every staff member with the assignment resolved for
	// filter.Day, narrowed by the remaining filter fields.
	ListAsOf(ctx context.Context, filter domain.RosterFilter) ([]domain.RosterEntry, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `s.id, s.given_name, s.family_name, s.display_name, s.mobile, s.email,
        s.start_date, s.end_date, s.created_at, s.updated_at`

// insertStaff runs inside AssignmentRepository.CreateStaff so the record and
// its initial assignment commit together.
func insertStaff(ctx context.Context, tx pgx.Tx, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff (given_name, family_name, display_name, mobile, email, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		staff.GivenName,
		staff.FamilyName,
		staff.DisplayName,
		staff.Mobile,
		staff.Email,
		staff.StartDate,
		staff.EndDate,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	return translatePgError(err)
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	return scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff s WHERE s.id=$1`, id))
}

func (r *staffRepository) GetByMobile(ctx context.Context, mobile string) (*domain.StaffMember, error) {
	return scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff s WHERE s.mobile=$1`, mobile))
}

// listAsOfQuery mirrors domain.ResolveCurrent in SQL: the inclusive read
// predicate, ordered priority, start, id, all descending.
const listAsOfQuery = `
    SELECT ` + staffColumns + `,
           cur.id, cur.role_code, r.label, cur.location_code,
           cur.effective_start, cur.effective_end, cur.priority, cur.created_at
    FROM staff s
    LEFT JOIN LATERAL (
        SELECT a.id, a.role_code, a.location_code, a.effective_start, a.effective_end, a.priority, a.created_at
        FROM staff_role_assignment a
        WHERE a.staff_id = s.id
          AND a.effective_start <= $1::date
          AND (a.effective_end IS NULL OR $1::date <= a.effective_end)
        ORDER BY a.priority DESC, a.effective_start DESC, a.id DESC
        LIMIT 1
    ) cur ON TRUE
    LEFT JOIN role r ON r.code = cur.role_code
    WHERE ($2::text = '' OR cur.role_code = $2::text)
      AND ($3::text = '' OR cur.location_code = $3::text)
      AND ($4::text = ''
           OR ($4::text = 'active' AND s.end_date IS NULL)
           OR ($4::text = 'inactive' AND s.end_date IS NOT NULL))
      AND ($5::text = ''
           OR s.mobile ILIKE $5::text ESCAPE '\'
           OR s.display_name ILIKE $5::text ESCAPE '\'
           OR s.given_name ILIKE $5::text ESCAPE '\'
           OR s.family_name ILIKE $5::text ESCAPE '\')
    ORDER BY s.family_name, s.given_name, s.id`

func (r *staffRepository) ListAsOf(ctx context.Context, filter domain.RosterFilter) ([]domain.RosterEntry, error) {
	pattern := ""
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern = "%" + escapeLike(q) + "%"
	}

	rows, err := r.pool.Query(ctx, listAsOfQuery,
		domain.Day(filter.Day),
		filter.RoleCode,
		filter.LocationCode,
		string(filter.Status),
		pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RosterEntry
	for rows.Next() {
		var (
			staff    domain.StaffMember
			aID      *int64
			roleCode *string
			label    *string
			locCode  *string
			start    *time.Time
			end      *time.Time
			priority *int
			created  *time.Time
		)
		if err := rows.Scan(
			&staff.ID, &staff.GivenName, &staff.FamilyName, &staff.DisplayName, &staff.Mobile, &staff.Email,
			&staff.StartDate, &staff.EndDate, &staff.CreatedAt, &staff.UpdatedAt,
			&aID, &roleCode, &label, &locCode, &start, &end, &priority, &created,
		); err != nil {
			return nil, err
		}

		entry := domain.RosterEntry{Staff: staff, IsActive: staff.IsEmployed()}
		if aID != nil {
			entry.Current = &domain.Assignment{
				ID:             *aID,
				StaffID:        staff.ID,
				RoleCode:       deref(roleCode),
				RoleLabel:      deref(label),
				LocationCode:   locCode,
				EffectiveStart: *start,
				EffectiveEnd:   end,
				Priority:       derefInt(priority),
				CreatedAt:      derefTime(created),
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := row.Scan(
		&staff.ID,
		&staff.GivenName,
		&staff.FamilyName,
		&staff.DisplayName,
		&staff.Mobile,
		&staff.Email,
		&staff.StartDate,
		&staff.EndDate,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

// escapeLike neutralizes LIKE metacharacters so user text matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
