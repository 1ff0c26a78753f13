// Package memory is an in-process implementation of the repository
// interfaces. It backs the server when no database is configured and every
// service and handler test.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/repository"
)

var (
	_ repository.ReferenceRepository  = (*Store)(nil)
	_ repository.StaffRepository      = (*Store)(nil)
	_ repository.AssignmentRepository = (*Store)(nil)
	_ repository.DeviceRepository     = (*Store)(nil)
)

// Store keeps all rows in maps guarded by one mutex. Ledger writes for a staff
// member additionally serialize on a per-staff lock.
type Store struct {
	mu          sync.RWMutex
	roles       map[string]domain.Role
	locations   map[string]domain.Location
	staff       map[string]domain.StaffMember
	assignments map[int64]domain.Assignment
	devices     map[string]domain.Device
	nextID      int64
	now         func() time.Time

	lockMu     sync.Mutex
	staffLocks map[string]*sync.Mutex
}

// NewStore returns an empty store seeded with the default roles and locations.
func NewStore() *Store {
	s := &Store{
		roles:       make(map[string]domain.Role),
		locations:   make(map[string]domain.Location),
		staff:       make(map[string]domain.StaffMember),
		assignments: make(map[int64]domain.Assignment),
		devices:     make(map[string]domain.Device),
		staffLocks:  make(map[string]*sync.Mutex),
		now:         time.Now,
	}
	for _, role := range domain.DefaultRoles() {
		s.roles[role.Code] = role
	}
	for _, loc := range domain.DefaultLocations() {
		s.locations[loc.Code] = loc
	}
	return s
}

// PutRole adds or replaces a role.
func (s *Store) PutRole(role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.Code] = role
}

// PutLocation adds or replaces a location.
func (s *Store) PutLocation(loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.Code] = loc
}

func (s *Store) ListRoles(_ context.Context) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Role, 0, len(s.roles))
	for _, role := range s.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (s *Store) ListLocations(_ context.Context) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetRole(_ context.Context, code string) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (s *Store) GetLocation(_ context.Context, code string) (*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &loc, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	lock := s.staffLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.staff, id)
	for aid, a := range s.assignments {
		if a.StaffID == id {
			delete(s.assignments, aid)
		}
	}
	for token, d := range s.devices {
		if d.StaffID == id {
			delete(s.devices, token)
		}
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staff, ok := s.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &staff, nil
}

func (s *Store) GetByMobile(_ context.Context, mobile string) (*domain.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, staff := range s.staff {
		if staff.Mobile == mobile {
			out := staff
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Store) ListAsOf(_ context.Context, filter domain.RosterFilter) ([]domain.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStaff := make(map[string][]domain.Assignment)
	for _, a := range s.assignments {
		a.RoleLabel = s.roles[a.RoleCode].Label
		byStaff[a.StaffID] = append(byStaff[a.StaffID], a)
	}

	var out []domain.RosterEntry
	for _, staff := range s.staff {
		entry := domain.NewRosterEntry(staff, byStaff[staff.ID], filter.Day)
		if filter.Matches(entry) {
			out = append(out, entry)
		}
	}
	domain.SortRoster(out)
	return out, nil
}

func (s *Store) ListByStaff(_ context.Context, staffID string) ([]domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.assignmentsForLocked(staffID)
	domain.SortHistory(out)
	return out, nil
}

func (s *Store) ResolveCurrent(_ context.Context, staffID string, day time.Time) (*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ResolveCurrent(s.assignmentsForLocked(staffID), day), nil
}

func (s *Store) Upsert(_ context.Context, device *domain.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[device.StaffID]; !ok {
		return pgx.ErrNoRows
	}
	if existing, ok := s.devices[device.Token]; ok {
		device.ID = existing.ID
	} else {
		device.ID = uuid.NewString()
	}
	device.LastSeenAt = s.now().UTC()
	s.devices[device.Token] = *device
	return nil
}

// Devices returns the registered devices for staffID.
func (s *Store) Devices(staffID string) []domain.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Device
	for _, d := range s.devices {
		if d.StaffID == staffID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

func (s *Store) checkMobileLocked(mobile, selfID string) error {
	for id, staff := range s.staff {
		if id != selfID && staff.Mobile == mobile {
			return repository.ErrDuplicateMobile
		}
	}
	return nil
}

func (s *Store) assignmentsForLocked(staffID string) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range s.assignments {
		if a.StaffID == staffID {
			a.RoleLabel = s.roles[a.RoleCode].Label
			out = append(out, a)
		}
	}
	return out
}
