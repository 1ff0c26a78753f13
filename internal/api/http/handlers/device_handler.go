package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-registry/internal/api/dto"
	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/service"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// DeviceHandler registers push tokens.
type DeviceHandler struct {
	devices *service.DeviceService
}

// NewDeviceHandler constructs handler.
func NewDeviceHandler(devices *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// Register POST /api/devices.
func (h *DeviceHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	device, err := h.devices.Register(c.UserContext(), req.StaffID, domain.Platform(req.Platform), req.Token)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.DeviceResponse{
		ID:         device.ID,
		StaffID:    device.StaffID,
		Platform:   string(device.Platform),
		Token:      device.Token,
		LastSeenAt: device.LastSeenAt,
	}})
}
