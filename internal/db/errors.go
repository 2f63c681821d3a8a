package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gerardoh13/jobly/internal/apperr"
)

// Postgres error codes this application reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// TranslateError maps driver errors onto the application's error kinds so
// repositories stay free of SQLSTATE knowledge. Errors it does not
// recognize pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.ErrDuplicate
		case pgForeignKeyViolation:
			// Inserting against a missing parent row.
			return apperr.ErrNotFound
		case pgNotNullViolation, pgCheckViolation:
			return apperr.ErrInvalidInput
		}
	}
	return err
}
