package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

const sqliteUniqueFailed = "UNIQUE constraint failed"

// IsUniqueViolation reports whether err is a unique constraint violation
// from Postgres (pgx or lib/pq) or SQLite. When hint is set, the violated
// constraint name (Postgres) or column list (SQLite) must contain it.
func IsUniqueViolation(err error, hint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return hint == "" || strings.Contains(pgErr.ConstraintName, hint) || strings.Contains(pgErr.Detail, hint)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return false
		}
		return hint == "" || strings.Contains(pqErr.Constraint, hint) || strings.Contains(pqErr.Detail, hint)
	}

	msg := err.Error()
	if strings.Contains(msg, sqliteUniqueFailed) || strings.Contains(msg, "duplicate key value") {
		return hint == "" || strings.Contains(msg, hint)
	}
	return false
}
