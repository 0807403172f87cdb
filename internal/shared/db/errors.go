package db

import (
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var keyDetail = regexp.MustCompile(`Key \(([^)]+)\)=`)

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	pe, ok := pgError(err)
	return ok && pe.Code == pgUniqueViolation
}

func IsForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	pe, ok := pgError(err)
	return ok && pe.Code == pgForeignKeyViolation
}

// IsConnection reports failures to reach the database at all, as opposed to
// errors returned by a live server.
func IsConnection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var ce *pgconn.ConnectError
	if errors.As(err, &ce) {
		return true
	}
	if pe, ok := pgError(err); ok {
		return strings.HasPrefix(pe.Code, "08")
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// DuplicateField names the column behind a unique violation, "Record" when
// the driver does not say.
func DuplicateField(err error) string {
	pe, ok := pgError(err)
	if !ok {
		return "Record"
	}
	if m := keyDetail.FindStringSubmatch(pe.Detail); len(m) == 2 {
		return fieldLabel(m[1])
	}
	if pe.ColumnName != "" {
		return fieldLabel(pe.ColumnName)
	}
	if i := strings.LastIndex(pe.ConstraintName, "_"); i >= 0 && i < len(pe.ConstraintName)-1 {
		return fieldLabel(pe.ConstraintName[i+1:])
	}
	return "Record"
}

func fieldLabel(col string) string {
	col = strings.TrimSpace(strings.Split(col, ",")[0])
	if col == "" {
		return "Record"
	}
	return strings.ToUpper(col[:1]) + col[1:]
}
