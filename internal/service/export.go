package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// ExportColumns is the fixed column order of every roster export.
var ExportColumns = []string{
	"id", "given_name", "family_name", "display_name", "mobile", "email",
	"start_date", "end_date", "is_active", "role_code", "role_label", "location_code",
}

const exportSheet = "Staff"

// ExportRow renders one entry in ExportColumns order.
func ExportRow(e domain.RosterEntry) []string {
	email := ""
	if e.Staff.Email != nil {
		email = *e.Staff.Email
	}
	endDate := ""
	if e.Staff.EndDate != nil {
		endDate = domain.FormatDay(*e.Staff.EndDate)
	}
	active := "FALSE"
	if e.IsActive {
		active = "TRUE"
	}
	var roleCode, roleLabel, locationCode string
	if e.Current != nil {
		roleCode = e.Current.RoleCode
		roleLabel = e.Current.RoleLabel
		locationCode = e.Current.LocationCodeOrEmpty()
	}
	return []string{
		e.Staff.ID,
		e.Staff.GivenName,
		e.Staff.FamilyName,
		e.Staff.DisplayName,
		e.Staff.Mobile,
		email,
		domain.FormatDay(e.Staff.StartDate),
		endDate,
		active,
		roleCode,
		roleLabel,
		locationCode,
	}
}

// WriteCSV writes the header and one row per entry.
func WriteCSV(w io.Writer, entries []domain.RosterEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(ExportRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildXLSX renders the same rows as WriteCSV into a workbook.
func BuildXLSX(entries []domain.RosterEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeXLSXRow(f, 1, ExportColumns); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ExportColumns))
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if err := writeXLSXRow(f, i+2, ExportRow(e)); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", lastCol, 16)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeXLSXRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(exportSheet, cell, &cells)
}

// ExportFilename is staff_<date>.<ext>.
func ExportFilename(day time.Time, ext string) string {
	return fmt.Sprintf("staff_%s.%s", domain.FormatDay(day), ext)
}
