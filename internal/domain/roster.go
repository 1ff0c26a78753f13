package domain

import (
	"sort"
	"strings"
	"time"
)

// StatusFilter restricts the roster by the staff-level active flag.
type StatusFilter string

const (
	StatusAny      StatusFilter = ""
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatusFilter maps unrecognised values to StatusAny.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	default:
		return StatusAny
	}
}

// RosterFilter selects staff for a reference day.
type RosterFilter struct {
	Day          time.Time
	RoleCode     string
	LocationCode string
	Status       StatusFilter
	Query        string
}

// RosterEntry is one staff member with their assignment resolved for a day.
type RosterEntry struct {
	Staff    StaffMember
	Current  *Assignment
	IsActive bool
}

// NewRosterEntry resolves the entry for day. IsActive follows the staff-level
// flag (no end date) and does not depend on the resolved assignment.
func NewRosterEntry(staff StaffMember, assignments []Assignment, day time.Time) RosterEntry {
	return RosterEntry{
		Staff:    staff,
		Current:  ResolveCurrent(assignments, day),
		IsActive: staff.IsEmployed(),
	}
}

// Matches applies the role, location, status and text filters to e.
func (f RosterFilter) Matches(e RosterEntry) bool {
	if f.RoleCode != "" && (e.Current == nil || e.Current.RoleCode != f.RoleCode) {
		return false
	}
	if f.LocationCode != "" && (e.Current == nil || e.Current.LocationCodeOrEmpty() != f.LocationCode) {
		return false
	}
	switch f.Status {
	case StatusActive:
		if !e.IsActive {
			return false
		}
	case StatusInactive:
		if e.IsActive {
			return false
		}
	}
	return MatchesText(e.Staff, f.Query)
}

// MatchesText is a case-insensitive substring match over mobile and names.
func MatchesText(s StaffMember, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{s.Mobile, s.DisplayName, s.GivenName, s.FamilyName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SortRoster orders entries by family name, then given name, then id.
func SortRoster(entries []RosterEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Staff, entries[j].Staff
		if a.FamilyName != b.FamilyName {
			return a.FamilyName < b.FamilyName
		}
		if a.GivenName != b.GivenName {
			return a.GivenName < b.GivenName
		}
		return a.ID < b.ID
	})
}
