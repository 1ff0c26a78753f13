package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/staff-registry/internal/domain"
	apperrors "github.com/spec-kit/staff-registry/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks struct tags and reports failures as VALIDATION_FAILED with
// the offending fields keyed by their JSON names.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", map[string]any{"fields": fields})
}

// ParseDay parses a required YYYY-MM-DD field.
func ParseDay(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
	}
	d, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field+" must be YYYY-MM-DD", map[string]any{"field": field, "value": value})
	}
	return d, nil
}

// ParseOptionalDay parses a nullable YYYY-MM-DD field. Nil and blank yield nil.
func ParseOptionalDay(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := ParseDay(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseQueryDay parses a query parameter day. Blank yields the zero time.
func ParseQueryDay(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return ParseDay(field, value)
}
