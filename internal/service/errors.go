package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// mapRepoError turns storage sentinels into domain errors. resource and
// details describe what a not-found refers to.
func mapRepoError(err error, resource string, details map[string]any) error {
	var domainErr *apperrors.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return domainErr
	case repository.IsNotFound(err):
		return apperrors.NewNotFound(resource, details)
	case errors.Is(err, repository.ErrDuplicateMobile):
		return apperrors.NewDuplicateContact("mobile already registered", nil)
	case errors.Is(err, repository.ErrUnknownRole):
		return apperrors.NewUnknownReference("role", "")
	case errors.Is(err, repository.ErrUnknownLocation):
		return apperrors.NewUnknownReference("location", "")
	case errors.Is(err, repository.ErrInvalidRange):
		return apperrors.NewInvalidRange("end date precedes start date", nil)
	}
	return apperrors.MapError(err)
}

// checkStaffID treats a malformed id as an absent record.
func checkStaffID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
	}
	return nil
}

func staffNotFound(id string) map[string]any {
	return map[string]any{"staff_id": id}
}
