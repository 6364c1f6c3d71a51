package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/walletvault/internal/common"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps driver-specific constraint failures onto the shared
// sentinel errors, so repositories behave identically over PostgreSQL and
// SQLite. Unique violations become common.ErrorConflict; foreign-key
// violations become common.ErrorNotFound (the referenced row is missing).
// Anything else is returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return common.ErrorConflict
		case pgForeignKeyViolation:
			return common.ErrorNotFound
		}
		return err
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return common.ErrorConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return common.ErrorNotFound
		}
	}

	return err
}
