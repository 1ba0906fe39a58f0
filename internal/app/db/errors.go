package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUndefinedTable checks if the error is a PostgreSQL undefined-table error (code 42P01).
// Table names are configurable, so a typo in USERS_TABLE or MESSAGES_TABLE
// surfaces here rather than as a generic query failure.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}
