package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/events"
	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// ExistingRecordKey is the DuplicateContact detail holding the conflicting record.
const ExistingRecordKey = "existing"

// StaffService manages staff records.
type StaffService struct {
	staff       repository.StaffRepository
	ledger      repository.AssignmentRepository
	assignments *AssignmentService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	clock       Clock
}

// StaffDependencies bundles collaborators.
type StaffDependencies struct {
	StaffRepo      repository.StaffRepository
	AssignmentRepo repository.AssignmentRepository
	Assignments    *AssignmentService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          Clock
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = NewClock(time.UTC)
	}
	return &StaffService{
		staff:       deps.StaffRepo,
		ledger:      deps.AssignmentRepo,
		assignments: deps.Assignments,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		clock:       clock,
	}
}

// CreateStaffInput carries a new record and an optional initial assignment.
type CreateStaffInput struct {
	GivenName    string
	FamilyName   string
	Mobile       string
	Email        *string
	StartDate    time.Time
	RoleCode     string
	LocationCode string
}

// UpdateStaffInput is a partial update; nil fields are left unchanged. An
// empty Email clears it.
type UpdateStaffInput struct {
	GivenName    *string
	FamilyName   *string
	Mobile       *string
	Email        *string
	StartDate    *time.Time
	RoleCode     *string
	LocationCode *string
}

// StaffDetail is a record with its assignment resolved for a day.
type StaffDetail struct {
	Staff   domain.StaffMember
	Current *domain.Assignment
	History []domain.Assignment
}

// Create inserts a staff record. A mobile already in use fails with
// DuplicateContact carrying the existing record. With a role code, the initial
// assignment starts on the start date and commits with the record.
func (s *StaffService) Create(ctx context.Context, in CreateStaffInput) (*domain.StaffMember, *AssignResult, error) {
	staff := &domain.StaffMember{
		GivenName:  strings.TrimSpace(in.GivenName),
		FamilyName: strings.TrimSpace(in.FamilyName),
		Mobile:     strings.TrimSpace(in.Mobile),
		Email:      normalizeEmail(in.Email),
		StartDate:  domain.Day(in.StartDate),
	}
	if err := validateStaff(staff); err != nil {
		return nil, nil, err
	}
	staff.DisplayName = domain.DisplayName(staff.GivenName, staff.FamilyName)

	var plan *assignPlan
	if roleCode := strings.TrimSpace(in.RoleCode); roleCode != "" {
		p, err := s.assignments.plan(ctx, AssignInput{
			RoleCode:       roleCode,
			LocationCode:   in.LocationCode,
			EffectiveStart: staff.StartDate,
		})
		if err != nil {
			return nil, nil, err
		}
		plan = p
	}

	if err := s.ensureMobileFree(ctx, staff.Mobile, ""); err != nil {
		return nil, nil, err
	}
	var result *AssignResult
	err := s.ledger.CreateStaff(ctx, staff, func(ctx context.Context, tx repository.LedgerTx) error {
		if plan == nil {
			return nil
		}
		r, err := s.assignments.apply(ctx, tx, *plan)
		if err != nil {
			return err
		}
		result = &r
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMobile) {
			return nil, nil, s.duplicateContact(ctx, staff.Mobile)
		}
		return nil, nil, mapRepoError(err, "staff", nil)
	}

	s.publish(ctx, events.EventStaffCreated, staff.ID, nil)
	if result != nil {
		s.assignments.announce(ctx, staff.ID, *result)
	}
	return staff, result, nil
}

// Update applies a partial update under the staff lock; the end date is only
// changed by End and Reactivate. A role code runs the assignment policy as of
// today in the same transaction.
func (s *StaffService) Update(ctx context.Context, id string, in UpdateStaffInput) (*domain.StaffMember, *AssignResult, error) {
	if err := checkStaffID(id); err != nil {
		return nil, nil, err
	}

	var plan *assignPlan
	if in.RoleCode != nil && strings.TrimSpace(*in.RoleCode) != "" {
		locationCode := ""
		if in.LocationCode != nil {
			locationCode = *in.LocationCode
		}
		p, err := s.assignments.plan(ctx, AssignInput{
			StaffID:        id,
			RoleCode:       strings.TrimSpace(*in.RoleCode),
			LocationCode:   locationCode,
			EffectiveStart: s.clock.Today(),
		})
		if err != nil {
			return nil, nil, err
		}
		plan = p
	}

	var (
		updated domain.StaffMember
		result  *AssignResult
	)
	err := s.ledger.WithStaffLock(ctx, id, func(ctx context.Context, tx repository.LedgerTx) error {
		staff := tx.Staff()
		applyStaffUpdate(&staff, in)
		if err := validateStaff(&staff); err != nil {
			return err
		}
		if staff.EndDate != nil && staff.EndDate.Before(staff.StartDate) {
			return invalidRange(staff.StartDate, *staff.EndDate)
		}
		staff.DisplayName = domain.DisplayName(staff.GivenName, staff.FamilyName)

		if err := s.ensureMobileFree(ctx, staff.Mobile, staff.ID); err != nil {
			return err
		}
		if err := tx.UpdateStaff(ctx, &staff); err != nil {
			return err
		}
		updated = staff
		if plan == nil {
			return nil
		}
		r, err := s.assignments.apply(ctx, tx, *plan)
		if err != nil {
			return err
		}
		result = &r
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMobile) && in.Mobile != nil {
			return nil, nil, s.duplicateContact(ctx, strings.TrimSpace(*in.Mobile))
		}
		return nil, nil, mapRepoError(err, "staff", staffNotFound(id))
	}

	s.publish(ctx, events.EventStaffUpdated, id, nil)
	if result != nil {
		s.assignments.announce(ctx, id, *result)
	}
	return &updated, result, nil
}

func applyStaffUpdate(staff *domain.StaffMember, in UpdateStaffInput) {
	if in.GivenName != nil {
		staff.GivenName = strings.TrimSpace(*in.GivenName)
	}
	if in.FamilyName != nil {
		staff.FamilyName = strings.TrimSpace(*in.FamilyName)
	}
	if in.Mobile != nil {
		staff.Mobile = strings.TrimSpace(*in.Mobile)
	}
	if in.Email != nil {
		staff.Email = normalizeEmail(in.Email)
	}
	if in.StartDate != nil {
		staff.StartDate = domain.Day(*in.StartDate)
	}
}

// End records the staff member's last day (today when endDate is nil) and
// closes every assignment still open past it.
func (s *StaffService) End(ctx context.Context, id string, endDate *time.Time) (*domain.StaffMember, error) {
	if err := checkStaffID(id); err != nil {
		return nil, err
	}
	end := s.clock.Today()
	if endDate != nil && !endDate.IsZero() {
		end = domain.Day(*endDate)
	}

	var (
		ended  domain.StaffMember
		closed int64
	)
	err := s.ledger.WithStaffLock(ctx, id, func(ctx context.Context, tx repository.LedgerTx) error {
		current := tx.Staff()
		if end.Before(domain.Day(current.StartDate)) {
			return invalidRange(current.StartDate, end)
		}
		if err := tx.SetStaffEndDate(ctx, &end); err != nil {
			return err
		}
		n, err := tx.CloseAssignmentsCovering(ctx, end)
		if err != nil {
			return err
		}
		closed = n
		ended = tx.Staff()
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "staff", staffNotFound(id))
	}

	s.logger.Info("staff ended",
		zap.String("staff_id", id),
		zap.String("end_date", domain.FormatDay(end)),
		zap.Int64("closed_assignments", closed),
	)
	s.publish(ctx, events.EventStaffEnded, id, events.StaffEndedPayload{EndDate: end, ClosedAssignments: closed})
	return &ended, nil
}

// Reactivate clears the end date. Closed assignments stay closed.
func (s *StaffService) Reactivate(ctx context.Context, id string) (*domain.StaffMember, error) {
	if err := checkStaffID(id); err != nil {
		return nil, err
	}
	var staff domain.StaffMember
	err := s.ledger.WithStaffLock(ctx, id, func(ctx context.Context, tx repository.LedgerTx) error {
		if err := tx.SetStaffEndDate(ctx, nil); err != nil {
			return err
		}
		staff = tx.Staff()
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "staff", staffNotFound(id))
	}
	s.publish(ctx, events.EventStaffReactivated, id, nil)
	return &staff, nil
}

// Delete removes the record together with its assignments and devices.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if err := checkStaffID(id); err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		return mapRepoError(err, "staff", staffNotFound(id))
	}
	s.publish(ctx, events.EventStaffDeleted, id, nil)
	return nil
}

// Get fetches a record by id. A malformed id is reported as not found.
func (s *StaffService) Get(ctx context.Context, id string) (*domain.StaffMember, error) {
	if err := checkStaffID(id); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "staff", staffNotFound(id))
	}
	return staff, nil
}

// Detail returns the record, its assignment on day (today when zero) and its history.
func (s *StaffService) Detail(ctx context.Context, id string, day time.Time) (*StaffDetail, error) {
	staff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = s.clock.Today()
	}
	history, err := s.assignments.ListForStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StaffDetail{
		Staff:   *staff,
		Current: domain.ResolveCurrent(history, day),
		History: history,
	}, nil
}

func (s *StaffService) ensureMobileFree(ctx context.Context, mobile, selfID string) error {
	existing, err := s.staff.GetByMobile(ctx, mobile)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing.ID == selfID {
		return nil
	}
	return duplicateContactError(existing)
}

// duplicateContact reloads the record that won a concurrent insert.
func (s *StaffService) duplicateContact(ctx context.Context, mobile string) error {
	existing, err := s.staff.GetByMobile(ctx, mobile)
	if err != nil {
		return apperrors.NewDuplicateContact("mobile already registered", map[string]any{"mobile": mobile})
	}
	return duplicateContactError(existing)
}

func duplicateContactError(existing *domain.StaffMember) error {
	return apperrors.NewDuplicateContact("mobile already registered", map[string]any{
		ExistingRecordKey: *existing,
	})
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, staffID string, payload any) {
	publishEvent(ctx, s.dispatcher, s.logger, eventType, staffID, payload)
}

func validateStaff(staff *domain.StaffMember) error {
	missing := []string{}
	if staff.GivenName == "" {
		missing = append(missing, "given_name")
	}
	if staff.FamilyName == "" {
		missing = append(missing, "family_name")
	}
	if staff.Mobile == "" {
		missing = append(missing, "mobile")
	}
	if staff.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
