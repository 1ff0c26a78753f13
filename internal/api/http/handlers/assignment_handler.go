package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-registry/internal/api/dto"
	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/service"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// AssignmentHandler exposes the assignment ledger of one staff member.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List GET /admin/staff/:id/assignments.
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	history, err := h.assignments.ListForStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponses(history)})
}

// Assign POST /admin/staff/:id/assignments. Created and superseded outcomes
// answer 201, the identity outcomes 200.
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	start, err := dto.ParseDay("effective_start", req.EffectiveStart)
	if err != nil {
		return err
	}
	end, err := dto.ParseOptionalDay("effective_end", req.EffectiveEnd)
	if err != nil {
		return err
	}

	result, err := h.assignments.Assign(c.UserContext(), service.AssignInput{
		StaffID:        c.Params("id"),
		RoleCode:       req.RoleCode,
		LocationCode:   req.LocationCode,
		EffectiveStart: start,
		EffectiveEnd:   end,
		Priority:       req.Priority,
	})
	if err != nil {
		return err
	}

	status := http.StatusOK
	if result.Outcome == domain.AssignCreated || result.Outcome == domain.AssignSuperseded {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(assignResponse(result))
}

// End POST /admin/staff/:id/assignments/:assignmentID/end.
func (h *AssignmentHandler) End(c *fiber.Ctx) error {
	assignmentID, err := strconv.ParseInt(c.Params("assignmentID"), 10, 64)
	if err != nil {
		return apperrors.NewNotFound("assignment", map[string]any{"assignment_id": c.Params("assignmentID")})
	}
	var req dto.EndAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	end, err := dto.ParseDay("end_date", req.EndDate)
	if err != nil {
		return err
	}

	updated, err := h.assignments.EndAssignment(c.UserContext(), c.Params("id"), assignmentID, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponse(updated)})
}
