package events

import (
	"time"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAssignmentCreated    EventType = "assignment_created"
	EventAssignmentSuperseded EventType = "assignment_superseded"
	EventAssignmentEndUpdated EventType = "assignment_end_updated"
	EventAssignmentUnchanged  EventType = "assignment_unchanged"
	EventAssignmentEnded      EventType = "assignment_ended"
	EventStaffCreated         EventType = "staff_created"
	EventStaffUpdated         EventType = "staff_updated"
	EventStaffEnded           EventType = "staff_ended"
	EventStaffReactivated     EventType = "staff_reactivated"
	EventStaffDeleted         EventType = "staff_deleted"
	EventDeviceRegistered     EventType = "device_registered"
)

// AllEventTypes lists every type a subscriber may register for.
func AllEventTypes() []EventType {
	return []EventType{
		EventAssignmentCreated,
		EventAssignmentSuperseded,
		EventAssignmentEndUpdated,
		EventAssignmentUnchanged,
		EventAssignmentEnded,
		EventStaffCreated,
		EventStaffUpdated,
		EventStaffEnded,
		EventStaffReactivated,
		EventStaffDeleted,
		EventDeviceRegistered,
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AssignmentPayload describes a ledger write.
type AssignmentPayload struct {
	AssignmentID   int64                `json:"assignment_id"`
	Outcome        domain.AssignOutcome `json:"outcome,omitempty"`
	RoleCode       string               `json:"role_code"`
	LocationCode   *string              `json:"location_code,omitempty"`
	EffectiveStart time.Time            `json:"effective_start"`
	EffectiveEnd   *time.Time           `json:"effective_end,omitempty"`
	// SupersededID is the assignment closed by this write, if any.
	SupersededID *int64 `json:"superseded_id,omitempty"`
}

// StaffEndedPayload carries the end date and how many assignments were closed.
type StaffEndedPayload struct {
	EndDate           time.Time `json:"end_date"`
	ClosedAssignments int64     `json:"closed_assignments"`
}

// DevicePayload payload.
type DevicePayload struct {
	Platform domain.Platform `json:"platform"`
}
