package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnauthenticated is returned when no caller identity is on the context
var ErrUnauthenticated = errors.New("user not found in context")

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	return isConstraintError(err, pgUniqueViolation, constraintName)
}

// isExclusionViolation checks if the error is a PostgreSQL exclusion constraint violation
// containing the specified constraint name
func isExclusionViolation(err error, constraintName string) bool {
	return isConstraintError(err, pgExclusionViolation, constraintName)
}

func isConstraintError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}
