package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/events"
)

// LedgerRecorder counts ledger writes by outcome.
type LedgerRecorder interface {
	RecordLedgerWrite(outcome string)
}

// ActivityService logs domain events and counts ledger writes.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	recorder   LedgerRecorder
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, recorder LedgerRecorder) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{dispatcher: dispatcher, logger: logger, recorder: recorder}
}

// RegisterHandlers subscribes to every event type.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes() {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *ActivityService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("staff_id", event.StaffID),
	}
	switch p := event.Payload.(type) {
	case events.AssignmentPayload:
		fields = append(fields, zap.Int64("assignment_id", p.AssignmentID), zap.String("role_code", p.RoleCode))
		if p.SupersededID != nil {
			fields = append(fields, zap.Int64("superseded_id", *p.SupersededID))
		}
		outcome := string(p.Outcome)
		if event.Type == events.EventAssignmentEnded {
			outcome = "ended"
		}
		if a.recorder != nil && outcome != "" {
			a.recorder.RecordLedgerWrite(outcome)
		}
	case events.StaffEndedPayload:
		fields = append(fields, zap.Int64("closed_assignments", p.ClosedAssignments))
	case events.DevicePayload:
		fields = append(fields, zap.String("platform", string(p.Platform)))
	}
	a.logger.Info("activity", fields...)
	return nil
}
