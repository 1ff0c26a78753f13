package handlers

import (
	"errors"

	"github.com/spec-kit/staff-registry/internal/api/dto"
	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/service"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

func staffResponse(s *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:          s.ID,
		GivenName:   s.GivenName,
		FamilyName:  s.FamilyName,
		DisplayName: s.DisplayName,
		Mobile:      s.Mobile,
		Email:       s.Email,
		StartDate:   domain.FormatDay(s.StartDate),
		EndDate:     domain.FormatOptionalDay(s.EndDate),
		IsActive:    s.IsEmployed(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func rosterRow(e domain.RosterEntry) dto.RosterRow {
	row := dto.RosterRow{
		ID:          e.Staff.ID,
		GivenName:   e.Staff.GivenName,
		FamilyName:  e.Staff.FamilyName,
		DisplayName: e.Staff.DisplayName,
		Mobile:      e.Staff.Mobile,
		Email:       e.Staff.Email,
		StartDate:   domain.FormatDay(e.Staff.StartDate),
		EndDate:     domain.FormatOptionalDay(e.Staff.EndDate),
		IsActive:    e.IsActive,
	}
	if e.Current != nil {
		code, label := e.Current.RoleCode, e.Current.RoleLabel
		row.RoleCode = &code
		row.RoleLabel = &label
		row.LocationCode = e.Current.LocationCode
	}
	return row
}

func rosterRows(entries []domain.RosterEntry) []dto.RosterRow {
	rows := make([]dto.RosterRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, rosterRow(e))
	}
	return rows
}

func assignmentResponse(a *domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:             a.ID,
		StaffID:        a.StaffID,
		RoleCode:       a.RoleCode,
		RoleLabel:      a.RoleLabel,
		LocationCode:   a.LocationCode,
		EffectiveStart: domain.FormatDay(a.EffectiveStart),
		EffectiveEnd:   domain.FormatOptionalDay(a.EffectiveEnd),
		Priority:       a.Priority,
		CreatedAt:      a.CreatedAt,
	}
}

func assignmentResponses(history []domain.Assignment) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, 0, len(history))
	for i := range history {
		out = append(out, assignmentResponse(&history[i]))
	}
	return out
}

func assignResponse(r *service.AssignResult) *dto.AssignResponse {
	if r == nil {
		return nil
	}
	return &dto.AssignResponse{
		Data:         assignmentResponse(&r.Assignment),
		Outcome:      string(r.Outcome),
		SupersededID: r.SupersededID,
	}
}

// presentStaffError replaces a domain record attached to a DuplicateContact
// error with its wire shape.
func presentStaffError(err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != apperrors.CodeDuplicateContact {
		return err
	}
	existing, ok := domainErr.Details[service.ExistingRecordKey].(domain.StaffMember)
	if !ok {
		return err
	}
	details := make(map[string]any, len(domainErr.Details))
	for k, v := range domainErr.Details {
		details[k] = v
	}
	details[service.ExistingRecordKey] = staffResponse(&existing)
	return apperrors.NewDomainError(domainErr.Code, domainErr.Message, domainErr.HTTPStatus, details)
}
