package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation (SQLSTATE 23503).
// Wrapped errors are unwrapped with errors.As.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsUniqueViolation reports whether err is a unique constraint violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsCheckViolation reports whether err is a check constraint violation (SQLSTATE 23514).
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// ConstraintName returns the violated constraint, if err is a PostgreSQL error.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == code
	}

	return false
}
