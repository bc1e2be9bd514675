package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL, на которые опирается маппинг в доменные ошибки.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	return pgErrCode(err) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == pgForeignKeyViolation
}

// constraintName возвращает имя нарушенного ограничения, если оно известно.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
