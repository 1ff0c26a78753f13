package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-registry/internal/api/dto"
	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/service"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// StaffHandler exposes the staff record and listing endpoints.
type StaffHandler struct {
	staff  *service.StaffService
	roster *service.RosterService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staff *service.StaffService, roster *service.RosterService) *StaffHandler {
	return &StaffHandler{staff: staff, roster: roster}
}

// OnSite GET /staff?d=&role=&location=.
func (h *StaffHandler) OnSite(c *fiber.Ctx) error {
	day, err := dto.ParseDay("d", c.Query("d"))
	if err != nil {
		return err
	}
	entries, err := h.roster.OnSite(c.UserContext(), day, c.Query("role"), c.Query("location"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rosterRows(entries), "as_of": domain.FormatDay(day)})
}

// List GET /admin/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	query, err := rosterQuery(c)
	if err != nil {
		return err
	}
	entries, filter, err := h.roster.ListStaffAsOf(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rosterRows(entries), "as_of": domain.FormatDay(filter.Day)})
}

// Create POST /admin/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	start, err := dto.ParseDay("start_date", req.StartDate)
	if err != nil {
		return err
	}

	staff, assigned, err := h.staff.Create(c.UserContext(), service.CreateStaffInput{
		GivenName:    req.GivenName,
		FamilyName:   req.FamilyName,
		Mobile:       req.Mobile,
		Email:        req.Email,
		StartDate:    start,
		RoleCode:     req.RoleCode,
		LocationCode: req.LocationCode,
	})
	if err != nil {
		return presentStaffError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.StaffWriteResponse{
		Staff:      staffResponse(staff),
		Assignment: assignResponse(assigned),
	}})
}

// Get GET /admin/staff/:id?d=.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	day, err := dto.ParseQueryDay("d", c.Query("d"))
	if err != nil {
		return err
	}
	detail, err := h.staff.Detail(c.UserContext(), c.Params("id"), day)
	if err != nil {
		return err
	}
	if day.IsZero() {
		day = h.roster.Today()
	}
	resp := dto.StaffDetailResponse{
		Staff:       staffResponse(&detail.Staff),
		AsOf:        domain.FormatDay(day),
		Assignments: assignmentResponses(detail.History),
	}
	if detail.Current != nil {
		current := assignmentResponse(detail.Current)
		resp.Current = &current
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Update PUT /admin/staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	start, err := dto.ParseOptionalDay("start_date", req.StartDate)
	if err != nil {
		return err
	}

	staff, assigned, err := h.staff.Update(c.UserContext(), c.Params("id"), service.UpdateStaffInput{
		GivenName:    req.GivenName,
		FamilyName:   req.FamilyName,
		Mobile:       req.Mobile,
		Email:        req.Email,
		StartDate:    start,
		RoleCode:     req.RoleCode,
		LocationCode: req.LocationCode,
	})
	if err != nil {
		return presentStaffError(err)
	}
	return c.JSON(fiber.Map{"data": dto.StaffWriteResponse{
		Staff:      staffResponse(staff),
		Assignment: assignResponse(assigned),
	}})
}

// Delete DELETE /admin/staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.staff.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// End POST /admin/staff/:id/end.
func (h *StaffHandler) End(c *fiber.Ctx) error {
	var req dto.EndStaffRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	end, err := dto.ParseOptionalDay("end_date", req.EndDate)
	if err != nil {
		return err
	}
	staff, err := h.staff.End(c.UserContext(), c.Params("id"), end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// Reactivate POST /admin/staff/:id/reactivate.
func (h *StaffHandler) Reactivate(c *fiber.Ctx) error {
	staff, err := h.staff.Reactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

func rosterQuery(c *fiber.Ctx) (service.RosterQuery, error) {
	day, err := dto.ParseQueryDay("d", c.Query("d"))
	if err != nil {
		return service.RosterQuery{}, err
	}
	return service.RosterQuery{
		Day:          day,
		RoleCode:     c.Query("role"),
		LocationCode: c.Query("location"),
		Status:       c.Query("status"),
		Query:        c.Query("q"),
	}, nil
}
