package domain

import "strings"

// NoLocationPlaceholder is what list views render for an office-less assignment.
const NoLocationPlaceholder = "—"

// DefaultTimezone applies to locations seeded without one.
const DefaultTimezone = "Australia/Melbourne"

// Role is a lookup entry keyed by code.
type Role struct {
	Code  string
	Label string
}

// Location is a lookup entry keyed by code.
type Location struct {
	Code     string
	Name     string
	Timezone string
}

// DefaultRoles is the seed set applied at bootstrap.
func DefaultRoles() []Role {
	return []Role{
		{Code: "RIDER", Label: "Rider"},
		{Code: "STRAPPER", Label: "Strapper"},
		{Code: "MEDIA", Label: "Media"},
		{Code: "TREADMILL", Label: "Treadmill"},
		{Code: "WATERWALKERS", Label: "WaterWalkers"},
		{Code: "FARRIER", Label: "Farrier"},
		{Code: "VET", Label: "Vet"},
	}
}

// DefaultLocations is the seed set applied at bootstrap.
func DefaultLocations() []Location {
	return []Location{
		{Code: "FARM", Name: "Farm", Timezone: DefaultTimezone},
		{Code: "FLEMINGTON", Name: "Flemington", Timezone: DefaultTimezone},
		{Code: "PAKENHAM", Name: "Pakenham", Timezone: DefaultTimezone},
	}
}

// NormalizeLocationCode trims code and maps blank or the placeholder to "".
func NormalizeLocationCode(code string) string {
	c := strings.TrimSpace(code)
	if c == NoLocationPlaceholder {
		return ""
	}
	return c
}
