package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// RosterService answers "who holds what, where, on a day".
type RosterService struct {
	staff repository.StaffRepository
	clock Clock
}

// NewRosterService creates the service.
func NewRosterService(staff repository.StaffRepository, clock Clock) *RosterService {
	if clock == nil {
		clock = NewClock(time.UTC)
	}
	return &RosterService{staff: staff, clock: clock}
}

// RosterQuery are the listing parameters. A zero Day means today.
type RosterQuery struct {
	Day          time.Time
	RoleCode     string
	LocationCode string
	Status       string
	Query        string
}

// Filter normalizes q into a domain filter.
func (s *RosterService) Filter(q RosterQuery) domain.RosterFilter {
	day := q.Day
	if day.IsZero() {
		day = s.clock.Today()
	}
	return domain.RosterFilter{
		Day:          domain.Day(day),
		RoleCode:     strings.TrimSpace(q.RoleCode),
		LocationCode: domain.NormalizeLocationCode(q.LocationCode),
		Status:       domain.ParseStatusFilter(q.Status),
		Query:        strings.TrimSpace(q.Query),
	}
}

// ListStaffAsOf returns every staff record with its assignment resolved for
// the day, filtered and sorted by family then given name.
func (s *RosterService) ListStaffAsOf(ctx context.Context, q RosterQuery) ([]domain.RosterEntry, domain.RosterFilter, error) {
	filter := s.Filter(q)
	entries, err := s.staff.ListAsOf(ctx, filter)
	if err != nil {
		return nil, filter, apperrors.MapError(err)
	}
	return entries, filter, nil
}

// OnSite returns staff employed on day whose resolved assignment matches the
// role and location filters.
func (s *RosterService) OnSite(ctx context.Context, day time.Time, roleCode, locationCode string) ([]domain.RosterEntry, error) {
	if day.IsZero() {
		return nil, apperrors.NewValidationError("d is required", map[string]any{"field": "d"})
	}
	entries, _, err := s.ListStaffAsOf(ctx, RosterQuery{Day: day, RoleCode: roleCode, LocationCode: locationCode})
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Current != nil && e.Staff.IsActiveOn(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Today reports the business day used when no date is given.
func (s *RosterService) Today() time.Time {
	return s.clock.Today()
}
