package db

import (
	"database/sql"
	"errors"

	"sharehope/pkg/types"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	mysqlDuplicateEntry    = 1062
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlDataTooLong       = 1406
	mysqlBadNull           = 1048
	mysqlTruncatedWrongVal = 1366

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// Translate maps a driver error onto the error kinds in pkg/types.
// Errors that already carry a kind are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := types.AsError(err); ok {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return types.Wrap(types.ErrNotFound, "record not found", err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return types.Wrap(types.ErrConflict, "record already exists", err)
		case mysqlRowIsReferenced:
			return types.Wrap(types.ErrValidation, "record is still referenced", err)
		case mysqlNoReferencedRow:
			return types.Wrap(types.ErrValidation, "referenced record does not exist", err)
		case mysqlDataTooLong, mysqlBadNull, mysqlTruncatedWrongVal:
			return types.Wrap(types.ErrValidation, "invalid value", err)
		}
		return types.Unavailable(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return types.Wrap(types.ErrConflict, "record already exists", err)
		case pgForeignKeyViolation:
			return types.Wrap(types.ErrValidation, "referenced record does not exist", err)
		case pgNotNullViolation, pgCheckViolation:
			return types.Wrap(types.ErrValidation, "invalid value", err)
		}
		return types.Unavailable(err)
	}

	if IsDuplicate(err) {
		return types.Wrap(types.ErrConflict, "record already exists", err)
	}

	return types.Unavailable(err)
}

// IsDuplicate reports a unique-key violation from either driver.
func IsDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return errors.Is(err, types.ErrConflict)
}
