package service

import (
	"context"
	"strings"

	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/repository"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

// ReferenceService answers role and location lookups.
type ReferenceService struct {
	refs repository.ReferenceRepository
}

// NewReferenceService creates the service.
func NewReferenceService(refs repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{refs: refs}
}

// ListRoles returns roles ordered by label.
func (s *ReferenceService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.refs.ListRoles(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return roles, nil
}

// ListLocations returns locations ordered by name.
func (s *ReferenceService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations, err := s.refs.ListLocations(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return locations, nil
}

// ResolveRole looks a role up by code.
func (s *ReferenceService) ResolveRole(ctx context.Context, code string) (*domain.Role, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError("role_code is required", map[string]any{"field": "role_code"})
	}
	role, err := s.refs.GetRole(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewUnknownReference("role", code)
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// ResolveLocation looks a location up by code. Blank or placeholder codes
// mean no location and return nil without error.
func (s *ReferenceService) ResolveLocation(ctx context.Context, code string) (*domain.Location, error) {
	code = domain.NormalizeLocationCode(code)
	if code == "" {
		return nil, nil
	}
	loc, err := s.refs.GetLocation(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewUnknownReference("location", code)
		}
		return nil, apperrors.MapError(err)
	}
	return loc, nil
}
