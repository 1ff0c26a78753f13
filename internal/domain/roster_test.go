package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatusFilter(t *testing.T) {
	require.Equal(t, StatusActive, ParseStatusFilter(" Active "))
	require.Equal(t, StatusInactive, ParseStatusFilter("inactive"))
	require.Equal(t, StatusAny, ParseStatusFilter("retired"))
}

func TestRosterFilter_Matches(t *testing.T) {
	jane := StaffMember{ID: "a", GivenName: "Jane", FamilyName: "Doe", DisplayName: "Jane Doe", Mobile: "0412345678"}
	entry := NewRosterEntry(jane, []Assignment{
		{ID: 1, RoleCode: "RIDER", LocationCode: code("FARM"), EffectiveStart: day("2024-02-01")},
	}, day("2024-03-01"))

	require.True(t, entry.IsActive)
	require.True(t, RosterFilter{}.Matches(entry))
	require.True(t, RosterFilter{RoleCode: "RIDER", LocationCode: "FARM"}.Matches(entry))
	require.False(t, RosterFilter{RoleCode: "VET"}.Matches(entry))
	require.False(t, RosterFilter{LocationCode: "PAKENHAM"}.Matches(entry))
	require.False(t, RosterFilter{Status: StatusInactive}.Matches(entry))
	require.True(t, RosterFilter{Query: "DOE"}.Matches(entry))
	require.True(t, RosterFilter{Query: "1234"}.Matches(entry))
	require.False(t, RosterFilter{Query: "smith"}.Matches(entry))
}

func TestRosterFilter_RoleFilterExcludesUnassigned(t *testing.T) {
	entry := NewRosterEntry(StaffMember{ID: "a"}, nil, day("2024-03-01"))
	require.Nil(t, entry.Current)
	require.False(t, RosterFilter{RoleCode: "RIDER"}.Matches(entry))
}

func TestSortRoster(t *testing.T) {
	entries := []RosterEntry{
		{Staff: StaffMember{ID: "3", GivenName: "Zed", FamilyName: "Adams"}},
		{Staff: StaffMember{ID: "1", GivenName: "Amy", FamilyName: "Brown"}},
		{Staff: StaffMember{ID: "2", GivenName: "Amy", FamilyName: "Adams"}},
	}
	SortRoster(entries)
	require.Equal(t, "2", entries[0].Staff.ID)
	require.Equal(t, "3", entries[1].Staff.ID)
	require.Equal(t, "1", entries[2].Staff.ID)
}
