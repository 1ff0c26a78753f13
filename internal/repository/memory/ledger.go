package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/repository"
)

// WithStaffLock serializes fn with every other ledger write for staffID. When
// fn fails, the staff row and its assignments are restored.
func (s *Store) WithStaffLock(ctx context.Context, staffID string, fn func(ctx context.Context, tx repository.LedgerTx) error) error {
	lock := s.staffLock(staffID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	staff, ok := s.staff[staffID]
	snapshot := make(map[int64]domain.Assignment)
	for id, a := range s.assignments {
		if a.StaffID == staffID {
			snapshot[id] = a
		}
	}
	s.mu.RUnlock()
	if !ok {
		return pgx.ErrNoRows
	}

	tx := &ledgerTx{store: s, staff: staff}
	if err := fn(ctx, tx); err != nil {
		s.mu.Lock()
		for id, a := range s.assignments {
			if a.StaffID == staffID {
				delete(s.assignments, id)
			}
		}
		for id, a := range snapshot {
			s.assignments[id] = a
		}
		if _, exists := s.staff[staffID]; exists {
			s.staff[staffID] = staff
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// CreateStaff inserts staff while holding its lock and runs fn. When fn fails
// the record and anything fn wrote are removed.
func (s *Store) CreateStaff(ctx context.Context, staff *domain.StaffMember, fn func(ctx context.Context, tx repository.LedgerTx) error) error {
	if staff.EndDate != nil && staff.EndDate.Before(staff.StartDate) {
		return repository.ErrInvalidRange
	}
	id := uuid.NewString()
	lock := s.staffLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	if err := s.checkMobileLocked(staff.Mobile, ""); err != nil {
		s.mu.Unlock()
		return err
	}
	now := s.now().UTC()
	staff.ID = id
	staff.CreatedAt = now
	staff.UpdatedAt = now
	s.staff[id] = *staff
	s.mu.Unlock()

	if fn == nil {
		return nil
	}
	tx := &ledgerTx{store: s, staff: *staff}
	if err := fn(ctx, tx); err != nil {
		s.mu.Lock()
		delete(s.staff, id)
		for aid, a := range s.assignments {
			if a.StaffID == id {
				delete(s.assignments, aid)
			}
		}
		s.mu.Unlock()
		return err
	}
	*staff = tx.staff
	return nil
}

func (s *Store) staffLock(staffID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.staffLocks[staffID]
	if !ok {
		lock = new(sync.Mutex)
		s.staffLocks[staffID] = lock
	}
	return lock
}

type ledgerTx struct {
	store *Store
	staff domain.StaffMember
}

func (t *ledgerTx) Staff() domain.StaffMember {
	return t.staff
}

func (t *ledgerTx) CurrentAt(_ context.Context, day time.Time) (*domain.Assignment, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return domain.CurrentForWrite(t.store.assignmentsForLocked(t.staff.ID), day), nil
}

func (t *ledgerTx) GetAssignment(_ context.Context, id int64) (*domain.Assignment, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	a, ok := t.store.assignments[id]
	if !ok || a.StaffID != t.staff.ID {
		return nil, pgx.ErrNoRows
	}
	a.RoleLabel = t.store.roles[a.RoleCode].Label
	return &a, nil
}

func (t *ledgerTx) InsertAssignment(_ context.Context, a *domain.Assignment) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	role, ok := t.store.roles[a.RoleCode]
	if !ok {
		return repository.ErrUnknownRole
	}
	if code := a.LocationCodeOrEmpty(); code != "" {
		if _, ok := t.store.locations[code]; !ok {
			return repository.ErrUnknownLocation
		}
	}
	if a.EffectiveEnd != nil && a.EffectiveEnd.Before(a.EffectiveStart) {
		return repository.ErrInvalidRange
	}

	t.store.nextID++
	a.ID = t.store.nextID
	a.StaffID = t.staff.ID
	a.RoleLabel = role.Label
	a.CreatedAt = t.store.now().UTC()
	t.store.assignments[a.ID] = *a
	return nil
}

func (t *ledgerTx) SetAssignmentEnd(_ context.Context, id int64, end *time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	a, ok := t.store.assignments[id]
	if !ok || a.StaffID != t.staff.ID {
		return pgx.ErrNoRows
	}
	if end != nil && end.Before(a.EffectiveStart) {
		return repository.ErrInvalidRange
	}
	a.EffectiveEnd = end
	t.store.assignments[id] = a
	return nil
}

func (t *ledgerTx) CloseAssignment(_ context.Context, id int64, end time.Time) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	a, ok := t.store.assignments[id]
	if !ok || a.StaffID != t.staff.ID {
		return false, nil
	}
	end = domain.Day(end)
	if a.EffectiveEnd != nil && !a.EffectiveEnd.After(end) {
		return false, nil
	}
	if end.Before(a.EffectiveStart) {
		return false, repository.ErrInvalidRange
	}
	a.EffectiveEnd = &end
	t.store.assignments[id] = a
	return true, nil
}

func (t *ledgerTx) CloseAssignmentsCovering(_ context.Context, day time.Time) (int64, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	day = domain.Day(day)
	var n int64
	for id, a := range t.store.assignments {
		if a.StaffID != t.staff.ID || !a.OpenAt(day) {
			continue
		}
		end := day
		a.EffectiveEnd = &end
		t.store.assignments[id] = a
		n++
	}
	return n, nil
}

func (t *ledgerTx) SetStaffEndDate(_ context.Context, end *time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	staff, ok := t.store.staff[t.staff.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if end != nil && end.Before(staff.StartDate) {
		return repository.ErrInvalidRange
	}
	staff.EndDate = end
	staff.UpdatedAt = t.store.now().UTC()
	t.store.staff[staff.ID] = staff
	t.staff = staff
	return nil
}

func (t *ledgerTx) UpdateStaff(_ context.Context, staff *domain.StaffMember) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	current, ok := t.store.staff[t.staff.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := t.store.checkMobileLocked(staff.Mobile, current.ID); err != nil {
		return err
	}
	if current.EndDate != nil && current.EndDate.Before(staff.StartDate) {
		return repository.ErrInvalidRange
	}
	current.GivenName = staff.GivenName
	current.FamilyName = staff.FamilyName
	current.DisplayName = staff.DisplayName
	current.Mobile = staff.Mobile
	current.Email = staff.Email
	current.StartDate = staff.StartDate
	current.UpdatedAt = t.store.now().UTC()
	t.store.staff[current.ID] = current
	t.staff = current
	*staff = current
	return nil
}
