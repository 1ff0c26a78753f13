package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Jane Doe", DisplayName(" Jane", "Doe "))
	require.Equal(t, "Jane", DisplayName("Jane", ""))
}

func TestStaffMember_IsActiveOn(t *testing.T) {
	s := StaffMember{StartDate: day("2024-01-01")}
	require.False(t, s.IsActiveOn(day("2023-12-31")))
	require.True(t, s.IsActiveOn(day("2024-01-01")))
	require.True(t, s.IsActiveOn(day("2099-01-01")))

	s.EndDate = dayPtr("2024-06-30")
	require.True(t, s.IsActiveOn(day("2024-06-30")))
	require.False(t, s.IsActiveOn(day("2024-07-01")))
}

func TestStaffMember_IsEmployedIgnoresDates(t *testing.T) {
	s := StaffMember{StartDate: day("2030-01-01")}
	require.True(t, s.IsEmployed())

	s.EndDate = dayPtr("2030-06-30")
	require.False(t, s.IsEmployed())
}

func TestDay_KeepsCalendarDateOfLocation(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)
	late := time.Date(2024, 3, 1, 23, 30, 0, 0, loc)
	require.Equal(t, "2024-03-01", FormatDay(Day(late)))
}

func TestParseDay_RejectsGarbage(t *testing.T) {
	_, err := ParseDay("01/02/2024")
	require.Error(t, err)
}
