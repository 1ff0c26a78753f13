package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/events"
	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// AssignmentService owns the supersession policy and the current-assignment
// resolver.
type AssignmentService struct {
	ledger     repository.AssignmentRepository
	staff      repository.StaffRepository
	reference  *ReferenceService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	StaffRepo      repository.StaffRepository
	Reference      *ReferenceService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          Clock
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = NewClock(time.UTC)
	}
	return &AssignmentService{
		ledger:     deps.AssignmentRepo,
		staff:      deps.StaffRepo,
		reference:  deps.Reference,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      clock,
	}
}

// AssignInput describes a requested binding.
type AssignInput struct {
	StaffID        string
	RoleCode       string
	LocationCode   string
	EffectiveStart time.Time
	EffectiveEnd   *time.Time
	Priority       int
}

// AssignResult is the row written or kept, and which branch produced it.
type AssignResult struct {
	Assignment domain.Assignment
	Outcome    domain.AssignOutcome
	// SupersededID is set when an open assignment was closed.
	SupersededID *int64
}

// Assign binds a staff member to a role (and optional location) from
// EffectiveStart. An open assignment with the same binding is kept, at most
// with its end date updated; a different binding is closed at EffectiveStart
// and replaced.
func (s *AssignmentService) Assign(ctx context.Context, in AssignInput) (*AssignResult, error) {
	if err := checkStaffID(in.StaffID); err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, in)
	if err != nil {
		return nil, err
	}

	var result AssignResult
	err = s.ledger.WithStaffLock(ctx, in.StaffID, func(ctx context.Context, tx repository.LedgerTx) error {
		r, err := s.apply(ctx, tx, *plan)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "staff", staffNotFound(in.StaffID))
	}
	s.announce(ctx, in.StaffID, result)
	return &result, nil
}

// assignPlan is an AssignInput with its references resolved and days normalised.
type assignPlan struct {
	roleCode     string
	locationCode *string
	start        time.Time
	end          *time.Time
	priority     int
}

func (s *AssignmentService) plan(ctx context.Context, in AssignInput) (*assignPlan, error) {
	if in.EffectiveStart.IsZero() {
		return nil, apperrors.NewValidationError("effective_start is required", map[string]any{"field": "effective_start"})
	}
	role, err := s.reference.ResolveRole(ctx, in.RoleCode)
	if err != nil {
		return nil, err
	}
	loc, err := s.reference.ResolveLocation(ctx, in.LocationCode)
	if err != nil {
		return nil, err
	}

	p := &assignPlan{
		roleCode: role.Code,
		start:    domain.Day(in.EffectiveStart),
		priority: in.Priority,
	}
	if loc != nil {
		code := loc.Code
		p.locationCode = &code
	}
	if in.EffectiveEnd != nil {
		p.end = domain.DayPtr(*in.EffectiveEnd)
		if p.end.Before(p.start) {
			return nil, invalidRange(p.start, *p.end)
		}
	}
	return p, nil
}

// apply runs the supersession policy inside a held staff lock.
func (s *AssignmentService) apply(ctx context.Context, tx repository.LedgerTx, p assignPlan) (AssignResult, error) {
	var result AssignResult
	current, err := tx.CurrentAt(ctx, p.start)
	if err != nil {
		return result, err
	}

	if current != nil && current.SameBinding(p.roleCode, p.locationCode) {
		result.Assignment = *current
		result.Outcome = domain.AssignUnchanged
		if p.end == nil || sameDay(current.EffectiveEnd, p.end) {
			return result, nil
		}
		if p.end.Before(current.EffectiveStart) {
			return result, invalidRange(current.EffectiveStart, *p.end)
		}
		if err := tx.SetAssignmentEnd(ctx, current.ID, p.end); err != nil {
			return result, err
		}
		result.Assignment.EffectiveEnd = p.end
		result.Outcome = domain.AssignEndUpdated
		return result, nil
	}

	result.Outcome = domain.AssignCreated
	if current != nil {
		closed, err := tx.CloseAssignment(ctx, current.ID, p.start)
		if err != nil {
			return result, err
		}
		if !closed {
			return result, apperrors.NewInvariantViolation("current assignment changed concurrently", map[string]any{
				"assignment_id": current.ID,
			})
		}
		id := current.ID
		result.SupersededID = &id
		result.Outcome = domain.AssignSuperseded
	}

	next := &domain.Assignment{
		RoleCode:       p.roleCode,
		LocationCode:   p.locationCode,
		EffectiveStart: p.start,
		EffectiveEnd:   p.end,
		Priority:       p.priority,
	}
	if err := tx.InsertAssignment(ctx, next); err != nil {
		return result, err
	}
	result.Assignment = *next
	return result, nil
}

// announce logs and publishes a committed write.
func (s *AssignmentService) announce(ctx context.Context, staffID string, result AssignResult) {
	s.logger.Debug("assignment written",
		zap.String("staff_id", staffID),
		zap.Int64("assignment_id", result.Assignment.ID),
		zap.String("outcome", string(result.Outcome)),
	)
	s.publish(ctx, outcomeEvent(result.Outcome), staffID, events.AssignmentPayload{
		AssignmentID:   result.Assignment.ID,
		Outcome:        result.Outcome,
		RoleCode:       result.Assignment.RoleCode,
		LocationCode:   result.Assignment.LocationCode,
		EffectiveStart: result.Assignment.EffectiveStart,
		EffectiveEnd:   result.Assignment.EffectiveEnd,
		SupersededID:   result.SupersededID,
	})
}

// EndAssignment sets the end date of one of the staff member's assignments.
func (s *AssignmentService) EndAssignment(ctx context.Context, staffID string, assignmentID int64, endDate time.Time) (*domain.Assignment, error) {
	if err := checkStaffID(staffID); err != nil {
		return nil, err
	}
	if endDate.IsZero() {
		return nil, apperrors.NewValidationError("end_date is required", map[string]any{"field": "end_date"})
	}
	end := domain.Day(endDate)

	var updated domain.Assignment
	err := s.ledger.WithStaffLock(ctx, staffID, func(ctx context.Context, tx repository.LedgerTx) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewNotFound("assignment", map[string]any{
					"staff_id":      staffID,
					"assignment_id": assignmentID,
				})
			}
			return err
		}
		if end.Before(a.EffectiveStart) {
			return invalidRange(a.EffectiveStart, end)
		}
		if err := tx.SetAssignmentEnd(ctx, a.ID, &end); err != nil {
			return err
		}
		a.EffectiveEnd = &end
		updated = *a
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "staff", staffNotFound(staffID))
	}

	s.publish(ctx, events.EventAssignmentEnded, staffID, events.AssignmentPayload{
		AssignmentID:   updated.ID,
		RoleCode:       updated.RoleCode,
		LocationCode:   updated.LocationCode,
		EffectiveStart: updated.EffectiveStart,
		EffectiveEnd:   updated.EffectiveEnd,
	})
	return &updated, nil
}

// ResolveCurrent returns the assignment binding on day, or nil when none does.
func (s *AssignmentService) ResolveCurrent(ctx context.Context, staffID string, day time.Time) (*domain.Assignment, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	current, err := s.ledger.ResolveCurrent(ctx, staffID, domain.Day(day))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return current, nil
}

// ListForStaff returns the assignment history, most recent start first.
func (s *AssignmentService) ListForStaff(ctx context.Context, staffID string) ([]domain.Assignment, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	history, err := s.ledger.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}

// Today reports the business day.
func (s *AssignmentService) Today() time.Time {
	return s.clock.Today()
}

func (s *AssignmentService) requireStaff(ctx context.Context, staffID string) error {
	if err := checkStaffID(staffID); err != nil {
		return err
	}
	if _, err := s.staff.GetByID(ctx, staffID); err != nil {
		return mapRepoError(err, "staff", staffNotFound(staffID))
	}
	return nil
}

func (s *AssignmentService) publish(ctx context.Context, eventType events.EventType, staffID string, payload any) {
	publishEvent(ctx, s.dispatcher, s.logger, eventType, staffID, payload)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, eventType events.EventType, staffID string, payload any) {
	if dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func outcomeEvent(outcome domain.AssignOutcome) events.EventType {
	switch outcome {
	case domain.AssignSuperseded:
		return events.EventAssignmentSuperseded
	case domain.AssignEndUpdated:
		return events.EventAssignmentEndUpdated
	case domain.AssignUnchanged:
		return events.EventAssignmentUnchanged
	default:
		return events.EventAssignmentCreated
	}
}

func invalidRange(start, end time.Time) error {
	return apperrors.NewInvalidRange("end date precedes start date", map[string]any{
		"start": domain.FormatDay(start),
		"end":   domain.FormatDay(end),
	})
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return domain.Day(*a).Equal(domain.Day(*b))
}
