package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by every store implementation. Not-found is reported
// as pgx.ErrNoRows.
var (
	ErrDuplicateMobile = errors.New("repository: mobile already registered")
	ErrUnknownRole     = errors.New("repository: unknown role code")
	ErrUnknownLocation = errors.New("repository: unknown location code")
	ErrInvalidRange    = errors.New("repository: end precedes start")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translatePgError maps constraint failures onto the sentinels above.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == "staff_mobile_key" {
			return ErrDuplicateMobile
		}
	case pgForeignKeyViolation:
		switch {
		case strings.Contains(pgErr.ConstraintName, "role_code"):
			return ErrUnknownRole
		case strings.Contains(pgErr.ConstraintName, "location_code"):
			return ErrUnknownLocation
		case strings.Contains(pgErr.ConstraintName, "staff_id"):
			return pgx.ErrNoRows
		}
	case pgCheckViolation:
		if strings.HasSuffix(pgErr.ConstraintName, "dates_check") {
			return ErrInvalidRange
		}
	}
	return err
}

// IsNotFound reports whether err is the shared not-found signal.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
