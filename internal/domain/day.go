package domain

import (
	"strings"
	"time"
)

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

// Day truncates t to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDay renders a day, or "" for the zero value.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DayLayout)
}

// FormatOptionalDay renders a nullable day.
func FormatOptionalDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDay(*t)
	return &s
}

// DayPtr normalizes t and returns its address.
func DayPtr(t time.Time) *time.Time {
	d := Day(t)
	return &d
}
