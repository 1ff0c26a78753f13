package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-registry/internal/api/dto"
	"github.com/spec-kit/staff-registry/internal/service"
)

// ReferenceHandler serves the role and location lookups.
type ReferenceHandler struct {
	reference *service.ReferenceService
}

// NewReferenceHandler constructs handler.
func NewReferenceHandler(reference *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

// ListRoles GET /roles.
func (h *ReferenceHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.reference.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		items = append(items, dto.RoleResponse{Code: r.Code, Label: r.Label})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListLocations GET /locations.
func (h *ReferenceHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.reference.ListLocations(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		items = append(items, dto.LocationResponse{Code: l.Code, Name: l.Name, Timezone: l.Timezone})
	}
	return c.JSON(fiber.Map{"data": items})
}
