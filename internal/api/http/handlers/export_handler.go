package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-registry/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams the listing as CSV or XLSX.
type ExportHandler struct {
	roster *service.RosterService
}

// NewExportHandler constructs handler.
func NewExportHandler(roster *service.RosterService) *ExportHandler {
	return &ExportHandler{roster: roster}
}

// CSV GET /admin/staff/export.csv.
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	query, err := rosterQuery(c)
	if err != nil {
		return err
	}
	entries, filter, err := h.roster.ListStaffAsOf(c.UserContext(), query)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, entries); err != nil {
		return err
	}
	attachment(c, service.ExportFilename(filter.Day, "csv"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// XLSX GET /admin/staff/export.xlsx.
func (h *ExportHandler) XLSX(c *fiber.Ctx) error {
	query, err := rosterQuery(c)
	if err != nil {
		return err
	}
	entries, filter, err := h.roster.ListStaffAsOf(c.UserContext(), query)
	if err != nil {
		return err
	}
	buf, err := service.BuildXLSX(entries)
	if err != nil {
		return err
	}
	attachment(c, service.ExportFilename(filter.Day, "xlsx"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}

func attachment(c *fiber.Ctx, filename string) {
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
