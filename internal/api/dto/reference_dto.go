package dto

// RoleResponse is a role lookup entry.
type RoleResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// LocationResponse is a location lookup entry.
type LocationResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}
