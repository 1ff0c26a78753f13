package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/events"
	"github.com/spec-kit/staff-registry/internal/repository/memory"
)

type testEnv struct {
	store       *memory.Store
	dispatcher  events.Dispatcher
	reference   *ReferenceService
	assignments *AssignmentService
	staff       *StaffService
	roster      *RosterService
	devices     *DeviceService
}

func newTestEnv(t *testing.T, today string) *testEnv {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	clock := FixedClock(day(t, today))
	logger := zap.NewNop()

	reference := NewReferenceService(store)
	assignments := NewAssignmentService(AssignmentDependencies{
		AssignmentRepo: store,
		StaffRepo:      store,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Clock:          clock,
	})
	staff := NewStaffService(StaffDependencies{
		StaffRepo:      store,
		AssignmentRepo: store,
		Assignments:    assignments,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Clock:          clock,
	})
	return &testEnv{
		store:       store,
		dispatcher:  dispatcher,
		reference:   reference,
		assignments: assignments,
		staff:       staff,
		roster:      NewRosterService(store, clock),
		devices:     NewDeviceService(store, dispatcher, logger),
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func dayPtr(t *testing.T, s string) *time.Time {
	d := day(t, s)
	return &d
}

func (e *testEnv) createJane(t *testing.T) *domain.StaffMember {
	t.Helper()
	return e.createStaff(t, "Jane", "Doe", "0412345678")
}

func (e *testEnv) createStaff(t *testing.T, given, family, mobile string) *domain.StaffMember {
	t.Helper()
	staff, _, err := e.staff.Create(context.Background(), CreateStaffInput{
		GivenName:  given,
		FamilyName: family,
		Mobile:     mobile,
		StartDate:  day(t, "2024-01-01"),
	})
	require.NoError(t, err)
	return staff
}

func (e *testEnv) assign(t *testing.T, staffID, role, location, start string) *AssignResult {
	t.Helper()
	result, err := e.assignments.Assign(context.Background(), AssignInput{
		StaffID:        staffID,
		RoleCode:       role,
		LocationCode:   location,
		EffectiveStart: day(t, start),
	})
	require.NoError(t, err)
	return result
}
