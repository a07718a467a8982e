package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE Postgres yang relevan.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// sqlState mengambil SQLSTATE dari pgx maupun lib/pq.
func sqlState(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if code, _ := sqlState(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if code, _ := sqlState(err); code != "" {
		return code == codeForeignKeyViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// CheckViolation mengembalikan nama constraint CHECK yang dilanggar (kalau ada).
func CheckViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if code, name := sqlState(err); code != "" {
		return name, code == codeCheckViolation
	}
	// sqlite: "CHECK constraint failed: chk_book_inventory"
	msg := err.Error()
	if i := strings.Index(msg, "CHECK constraint failed"); i >= 0 {
		name := strings.TrimSpace(strings.TrimPrefix(msg[i+len("CHECK constraint failed"):], ":"))
		if j := strings.Index(name, " "); j >= 0 {
			name = name[:j]
		}
		return name, true
	}
	return "", false
}
