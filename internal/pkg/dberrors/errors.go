package dberrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// PostgreSQL error codes the repositories react to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"

	// ClassDataException covers 22001 string_data_right_truncation,
	// 22003 numeric_value_out_of_range and friends.
	ClassDataException = "22"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports a unique_violation on any constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}

// IsForeignKeyViolation reports a foreign_key_violation on any constraint.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeForeignKeyViolation
}

// IsClientDataError reports errors caused by the values a request carried
// rather than by the database itself.
func IsClientDataError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == CodeCheckViolation || strings.HasPrefix(pgErr.Code, ClassDataException)
}

// Wrap classifies an unexpected driver error as a storage failure. Errors that
// already carry an application sentinel pass through untouched, and rejected
// input values become validation failures.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrConflict,
		apperrors.ErrValidationFailed,
		apperrors.ErrInvalidTransition,
		apperrors.ErrPermissionDenied,
		apperrors.ErrStorageFailure) {
		return err
	}
	if IsClientDataError(err) {
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrValidationFailed, err)
	}
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorageFailure, err)
}
