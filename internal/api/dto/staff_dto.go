package dto

import "time"

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	GivenName    string  `json:"given_name" validate:"required,max=100"`
	FamilyName   string  `json:"family_name" validate:"required,max=100"`
	Mobile       string  `json:"mobile" validate:"required,max=32"`
	Email        *string `json:"email" validate:"omitempty,max=254"`
	StartDate    string  `json:"start_date" validate:"required"`
	RoleCode     string  `json:"role_code" validate:"max=32"`
	LocationCode string  `json:"location_code" validate:"max=32"`
}

// UpdateStaffRequest is a partial update; omitted fields are left unchanged.
type UpdateStaffRequest struct {
	GivenName    *string `json:"given_name" validate:"omitempty,min=1,max=100"`
	FamilyName   *string `json:"family_name" validate:"omitempty,min=1,max=100"`
	Mobile       *string `json:"mobile" validate:"omitempty,min=1,max=32"`
	Email        *string `json:"email" validate:"omitempty,max=254"`
	StartDate    *string `json:"start_date"`
	RoleCode     *string `json:"role_code" validate:"omitempty,max=32"`
	LocationCode *string `json:"location_code" validate:"omitempty,max=32"`
}

// EndStaffRequest payload. A missing end date means today.
type EndStaffRequest struct {
	EndDate *string `json:"end_date"`
}

// StaffResponse is a staff record.
type StaffResponse struct {
	ID          string    `json:"id"`
	GivenName   string    `json:"given_name"`
	FamilyName  string    `json:"family_name"`
	DisplayName string    `json:"display_name"`
	Mobile      string    `json:"mobile"`
	Email       *string   `json:"email"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RosterRow is one listing row with the assignment resolved for the day.
type RosterRow struct {
	ID           string  `json:"id"`
	GivenName    string  `json:"given_name"`
	FamilyName   string  `json:"family_name"`
	DisplayName  string  `json:"display_name"`
	Mobile       string  `json:"mobile"`
	Email        *string `json:"email"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	IsActive     bool    `json:"is_active"`
	RoleCode     *string `json:"role_code"`
	RoleLabel    *string `json:"role_label"`
	LocationCode *string `json:"location_code"`
}

// StaffDetailResponse is a record with its current assignment and history.
type StaffDetailResponse struct {
	Staff       StaffResponse        `json:"staff"`
	AsOf        string               `json:"as_of"`
	Current     *AssignmentResponse  `json:"current"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// StaffWriteResponse is returned by create and update. Assignment is set when
// the request carried a role.
type StaffWriteResponse struct {
	Staff      StaffResponse   `json:"staff"`
	Assignment *AssignResponse `json:"assignment,omitempty"`
}
