package domain

import (
	"sort"
	"time"
)

// AssignOutcome tells callers which branch of the supersession policy ran.
type AssignOutcome string

const (
	AssignCreated    AssignOutcome = "created"
	AssignSuperseded AssignOutcome = "superseded"
	AssignEndUpdated AssignOutcome = "end_updated"
	AssignUnchanged  AssignOutcome = "unchanged"
)

// Assignment binds a staff member to a role and optional location over an
// effective interval. Only EffectiveEnd changes after creation.
type Assignment struct {
	ID             int64
	StaffID        string
	RoleCode       string
	RoleLabel      string
	LocationCode   *string
	EffectiveStart time.Time
	EffectiveEnd   *time.Time
	Priority       int
	CreatedAt      time.Time
}

// Covers is the read-path predicate: start <= day <= end, end inclusive.
func (a Assignment) Covers(day time.Time) bool {
	day = Day(day)
	if Day(a.EffectiveStart).After(day) {
		return false
	}
	return a.EffectiveEnd == nil || !day.After(Day(*a.EffectiveEnd))
}

// OpenAt is the write-path predicate: start <= day < end, end exclusive.
func (a Assignment) OpenAt(day time.Time) bool {
	day = Day(day)
	if Day(a.EffectiveStart).After(day) {
		return false
	}
	return a.EffectiveEnd == nil || Day(*a.EffectiveEnd).After(day)
}

// SameBinding reports whether a holds roleCode at locationCode. A nil or
// empty location only matches another missing location.
func (a Assignment) SameBinding(roleCode string, locationCode *string) bool {
	if a.RoleCode != roleCode {
		return false
	}
	return optionalCode(a.LocationCode) == optionalCode(locationCode)
}

// LocationCodeOrEmpty returns the location code, or "" when unset.
func (a Assignment) LocationCodeOrEmpty() string {
	return optionalCode(a.LocationCode)
}

func optionalCode(code *string) string {
	if code == nil {
		return ""
	}
	return *code
}

// Precedes orders candidates for the current slot: priority desc, then
// effective_start desc, then id desc.
func Precedes(a, b Assignment) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.EffectiveStart.Equal(b.EffectiveStart) {
		return a.EffectiveStart.After(b.EffectiveStart)
	}
	return a.ID > b.ID
}

// ResolveCurrent selects the assignment binding on day, or nil.
func ResolveCurrent(assignments []Assignment, day time.Time) *Assignment {
	return pick(assignments, func(a Assignment) bool { return a.Covers(day) })
}

// CurrentForWrite selects the assignment a new one starting on day would
// supersede, using the half-open write predicate.
func CurrentForWrite(assignments []Assignment, day time.Time) *Assignment {
	return pick(assignments, func(a Assignment) bool { return a.OpenAt(day) })
}

func pick(assignments []Assignment, match func(Assignment) bool) *Assignment {
	var best *Assignment
	for i := range assignments {
		if !match(assignments[i]) {
			continue
		}
		if best == nil || Precedes(assignments[i], *best) {
			best = &assignments[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// SortHistory orders assignments most recent start first, then by role code.
func SortHistory(assignments []Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if !a.EffectiveStart.Equal(b.EffectiveStart) {
			return a.EffectiveStart.After(b.EffectiveStart)
		}
		return a.RoleCode < b.RoleCode
	})
}
