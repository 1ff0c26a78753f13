package dto

import "time"

// AssignRequest payload.
type AssignRequest struct {
	RoleCode       string  `json:"role_code" validate:"required,max=32"`
	LocationCode   string  `json:"location_code" validate:"max=32"`
	EffectiveStart string  `json:"effective_start" validate:"required"`
	EffectiveEnd   *string `json:"effective_end"`
	Priority       int     `json:"priority"`
}

// EndAssignmentRequest payload.
type EndAssignmentRequest struct {
	EndDate string `json:"end_date" validate:"required"`
}

// AssignmentResponse is one ledger row.
type AssignmentResponse struct {
	ID             int64     `json:"id"`
	StaffID        string    `json:"staff_id"`
	RoleCode       string    `json:"role_code"`
	RoleLabel      string    `json:"role_label"`
	LocationCode   *string   `json:"location_code"`
	EffectiveStart string    `json:"effective_start"`
	EffectiveEnd   *string   `json:"effective_end"`
	Priority       int       `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
}

// AssignResponse wraps the row written or kept with the policy outcome.
type AssignResponse struct {
	Data         AssignmentResponse `json:"data"`
	Outcome      string             `json:"outcome"`
	SupersededID *int64             `json:"superseded_id,omitempty"`
}
