package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

func TestCreate_DuplicateMobileReturnsExisting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)

	_, _, err := env.staff.Create(ctx, CreateStaffInput{
		GivenName:  "Janet",
		FamilyName: "Other",
		Mobile:     " 0412345678 ",
		StartDate:  day(t, "2024-03-01"),
	})
	require.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateContact))

	domainErr := apperrors.ToDomainError(err)
	existing, ok := domainErr.Details[ExistingRecordKey].(domain.StaffMember)
	require.True(t, ok)
	require.Equal(t, jane.ID, existing.ID)

	entries, _, err := env.roster.ListStaffAsOf(ctx, RosterQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1, "no second row inserted")
}

func TestCreate_WithRoleMakesInitialAssignment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")

	staff, result, err := env.staff.Create(ctx, CreateStaffInput{
		GivenName:    "Amy",
		FamilyName:   "Adams",
		Mobile:       "0400000003",
		StartDate:    day(t, "2024-02-01"),
		RoleCode:     "MEDIA",
		LocationCode: "PAKENHAM",
	})
	require.NoError(t, err)
	require.Equal(t, "Amy Adams", staff.DisplayName)
	require.NotNil(t, result)
	require.Equal(t, domain.AssignCreated, result.Outcome)
	require.True(t, result.Assignment.EffectiveStart.Equal(staff.StartDate))
}

func TestCreate_UnknownRoleInsertsNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")

	_, _, err := env.staff.Create(ctx, CreateStaffInput{
		GivenName:  "Amy",
		FamilyName: "Adams",
		Mobile:     "0400000003",
		StartDate:  day(t, "2024-02-01"),
		RoleCode:   "PILOT",
	})
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnknownReference))

	_, err = env.store.GetByMobile(ctx, "0400000003")
	require.Error(t, err)
}

func TestCreate_MissingFields(t *testing.T) {
	env := newTestEnv(t, "2024-06-01")
	_, _, err := env.staff.Create(context.Background(), CreateStaffInput{GivenName: "Amy"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUpdate_PartialAndDuplicate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	john := env.createStaff(t, "John", "Smith", "0400000002")

	family := "Citizen"
	updated, _, err := env.staff.Update(ctx, jane.ID, UpdateStaffInput{FamilyName: &family})
	require.NoError(t, err)
	require.Equal(t, "Jane Citizen", updated.DisplayName)
	require.Equal(t, "0412345678", updated.Mobile)

	taken := "0412345678"
	_, _, err = env.staff.Update(ctx, john.ID, UpdateStaffInput{Mobile: &taken})
	require.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateContact))

	same := "0412345678"
	_, _, err = env.staff.Update(ctx, jane.ID, UpdateStaffInput{Mobile: &same})
	require.NoError(t, err, "keeping one's own mobile is not a conflict")
}

func TestUpdate_WithRoleAssignsFromToday(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	env.assign(t, jane.ID, "RIDER", "FARM", "2024-02-01")

	role := "VET"
	_, result, err := env.staff.Update(ctx, jane.ID, UpdateStaffInput{RoleCode: &role})
	require.NoError(t, err)
	require.Equal(t, domain.AssignSuperseded, result.Outcome)
	require.True(t, result.Assignment.EffectiveStart.Equal(day(t, "2024-06-01")))
}

func TestUpdate_StartAfterEndIsInvalidRange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	_, err := env.staff.End(ctx, jane.ID, dayPtr(t, "2024-03-31"))
	require.NoError(t, err)

	start := day(t, "2024-04-01")
	_, _, err = env.staff.Update(ctx, jane.ID, UpdateStaffInput{StartDate: &start})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRange))
}

func TestUpdate_UnknownStaff(t *testing.T) {
	env := newTestEnv(t, "2024-06-01")
	name := "X"
	_, _, err := env.staff.Update(context.Background(), "7b1e2d0e-4f58-4c1a-9f57-2f6d4dc0a001", UpdateStaffInput{GivenName: &name})
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestEnd_ClosesCoveringAssignmentsAndReactivateKeepsThemClosed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	env.assign(t, jane.ID, "RIDER", "FARM", "2024-02-01")

	ended, err := env.staff.End(ctx, jane.ID, dayPtr(t, "2024-04-30"))
	require.NoError(t, err)
	require.NotNil(t, ended.EndDate)
	require.False(t, ended.IsEmployed())

	history, err := env.assignments.ListForStaff(ctx, jane.ID)
	require.NoError(t, err)
	require.True(t, history[0].EffectiveEnd.Equal(day(t, "2024-04-30")))

	back, err := env.staff.Reactivate(ctx, jane.ID)
	require.NoError(t, err)
	require.Nil(t, back.EndDate)

	history, err = env.assignments.ListForStaff(ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, history[0].EffectiveEnd)
}

func TestEnd_DefaultsToToday(t *testing.T) {
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)

	ended, err := env.staff.End(context.Background(), jane.ID, nil)
	require.NoError(t, err)
	require.True(t, ended.EndDate.Equal(day(t, "2024-06-01")))
}

func TestEnd_BeforeStartIsInvalidRange(t *testing.T) {
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)

	_, err := env.staff.End(context.Background(), jane.ID, dayPtr(t, "2023-12-31"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRange))

	got, err := env.staff.Get(context.Background(), jane.ID)
	require.NoError(t, err)
	require.Nil(t, got.EndDate)
}

func TestEndAndReactivate_UnknownStaff(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	missing := "7b1e2d0e-4f58-4c1a-9f57-2f6d4dc0a001"

	_, err := env.staff.End(ctx, missing, nil)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = env.staff.Reactivate(ctx, missing)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	require.True(t, apperrors.HasCode(env.staff.Delete(ctx, missing), apperrors.CodeNotFound))
}

func TestDetail_ResolvesForDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	env.assign(t, jane.ID, "RIDER", "FARM", "2024-02-01")
	env.assign(t, jane.ID, "STRAPPER", "FLEMINGTON", "2024-05-01")

	detail, err := env.staff.Detail(ctx, jane.ID, day(t, "2024-03-01"))
	require.NoError(t, err)
	require.Equal(t, "RIDER", detail.Current.RoleCode)
	require.Len(t, detail.History, 2)

	detail, err = env.staff.Detail(ctx, jane.ID, detail.Staff.StartDate.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Nil(t, detail.Current)
}

// hookedStaffRepo runs onGetByMobile once, before the first mobile lookup.
type hookedStaffRepo struct {
	repository.StaffRepository
	onGetByMobile func()
}

func (r *hookedStaffRepo) GetByMobile(ctx context.Context, mobile string) (*domain.StaffMember, error) {
	if hook := r.onGetByMobile; hook != nil {
		r.onGetByMobile = nil
		hook()
	}
	return r.StaffRepository.GetByMobile(ctx, mobile)
}

// failingInsertLedger makes every assignment insert inside CreateStaff fail.
type failingInsertLedger struct {
	repository.AssignmentRepository
	err error
}

func (l *failingInsertLedger) CreateStaff(ctx context.Context, staff *domain.StaffMember, fn func(context.Context, repository.LedgerTx) error) error {
	return l.AssignmentRepository.CreateStaff(ctx, staff, func(ctx context.Context, tx repository.LedgerTx) error {
		return fn(ctx, failingInsertTx{LedgerTx: tx, err: l.err})
	})
}

type failingInsertTx struct {
	repository.LedgerTx
	err error
}

func (t failingInsertTx) InsertAssignment(context.Context, *domain.Assignment) error {
	return t.err
}

func TestUpdate_ConcurrentEndIsNotUndone(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	env.assign(t, jane.ID, "RIDER", "FARM", "2024-02-01")
	end := day(t, "2024-05-15")

	ended := make(chan error, 1)
	repo := &hookedStaffRepo{StaffRepository: env.store}
	repo.onGetByMobile = func() {
		go func() {
			_, err := env.staff.End(ctx, jane.ID, &end)
			ended <- err
		}()
		// End needs the staff lock held by Update, so it cannot finish here.
		select {
		case err := <-ended:
			ended <- err
		case <-time.After(50 * time.Millisecond):
		}
	}
	updater := NewStaffService(StaffDependencies{
		StaffRepo:      repo,
		AssignmentRepo: env.store,
		Assignments:    env.assignments,
		Dispatcher:     env.dispatcher,
		Clock:          FixedClock(day(t, "2024-06-01")),
	})

	name := "Janet"
	_, _, err := updater.Update(ctx, jane.ID, UpdateStaffInput{GivenName: &name})
	require.NoError(t, err)
	require.NoError(t, <-ended)

	got, err := env.staff.Get(ctx, jane.ID)
	require.NoError(t, err)
	require.Equal(t, "Janet", got.GivenName)
	require.NotNil(t, got.EndDate)
	require.True(t, end.Equal(*got.EndDate))
	require.False(t, got.IsEmployed())

	history, err := env.assignments.ListForStaff(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].EffectiveEnd)
	require.True(t, end.Equal(*history[0].EffectiveEnd))
}

func TestUpdate_AfterEndKeepsEndDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	_, err := env.staff.End(ctx, jane.ID, dayPtr(t, "2024-05-15"))
	require.NoError(t, err)

	name := "Janet"
	updated, _, err := env.staff.Update(ctx, jane.ID, UpdateStaffInput{GivenName: &name})
	require.NoError(t, err)
	require.NotNil(t, updated.EndDate)
	require.True(t, day(t, "2024-05-15").Equal(*updated.EndDate))
}

func TestCreate_FailedInitialAssignmentLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	creator := NewStaffService(StaffDependencies{
		StaffRepo:      env.store,
		AssignmentRepo: &failingInsertLedger{AssignmentRepository: env.store, err: errors.New("storage offline")},
		Assignments:    env.assignments,
		Dispatcher:     env.dispatcher,
		Clock:          FixedClock(day(t, "2024-06-01")),
	})
	in := CreateStaffInput{
		GivenName:  "Amy",
		FamilyName: "Adams",
		Mobile:     "0400000003",
		StartDate:  day(t, "2024-02-01"),
		RoleCode:   "MEDIA",
	}

	_, _, err := creator.Create(ctx, in)
	require.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	_, err = env.store.GetByMobile(ctx, "0400000003")
	require.ErrorIs(t, err, pgx.ErrNoRows)

	staff, result, err := env.staff.Create(ctx, in)
	require.NoError(t, err, "a retry with the same mobile succeeds")
	require.NotNil(t, result)
	require.Equal(t, domain.AssignCreated, result.Outcome)
	require.Equal(t, staff.ID, result.Assignment.StaffID)
}
