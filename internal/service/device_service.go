package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/events"
	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// DeviceService registers push tokens.
type DeviceService struct {
	devices    repository.DeviceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDeviceService creates the service.
func NewDeviceService(devices repository.DeviceRepository, dispatcher events.Dispatcher, logger *zap.Logger) *DeviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceService{devices: devices, dispatcher: dispatcher, logger: logger}
}

// Register upserts a device by token; re-registering moves the token.
func (s *DeviceService) Register(ctx context.Context, staffID string, platform domain.Platform, token string) (*domain.Device, error) {
	if err := checkStaffID(staffID); err != nil {
		return nil, err
	}
	if !platform.Valid() {
		return nil, apperrors.NewValidationError("platform must be iOS or Android", map[string]any{"field": "platform"})
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewValidationError("token is required", map[string]any{"field": "token"})
	}

	device := &domain.Device{StaffID: staffID, Platform: platform, Token: token}
	if err := s.devices.Upsert(ctx, device); err != nil {
		return nil, mapRepoError(err, "staff", staffNotFound(staffID))
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.EventDeviceRegistered, staffID, events.DevicePayload{Platform: platform})
	return device, nil
}
