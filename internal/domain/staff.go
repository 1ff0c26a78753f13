package domain

import (
	"strings"
	"time"
)

// StaffMember is a person employed by the organization.
type StaffMember struct {
	ID          string
	GivenName   string
	FamilyName  string
	DisplayName string
	Mobile      string
	Email       *string
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName joins given and family names.
func DisplayName(given, family string) string {
	return strings.TrimSpace(strings.TrimSpace(given) + " " + strings.TrimSpace(family))
}

// IsActiveOn reports whether day falls within the employment dates, inclusive.
func (s StaffMember) IsActiveOn(day time.Time) bool {
	day = Day(day)
	if Day(s.StartDate).After(day) {
		return false
	}
	return s.EndDate == nil || !day.After(Day(*s.EndDate))
}

// IsEmployed is the listing status flag: no end date recorded.
func (s StaffMember) IsEmployed() bool {
	return s.EndDate == nil
}
