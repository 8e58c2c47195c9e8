package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Dialects the feed store can run on. SQLite is the embedded default
// for single-instance deployments; postgres is selected from the DSN.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DialectName returns the dialect of an open connection, or "" when
// the connection carries none.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection runs on the embedded store.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// CaseInsensitiveLikeExpr builds the WHERE fragment for matching a
// column case-insensitively, as used by the run-history ID filter.
// Postgres has ILIKE; SQLite only folds ASCII in LIKE, so the column
// is lowered explicitly and the pattern lowered to match.
func CaseInsensitiveLikeExpr(conn *gorm.DB, column string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf("LOWER(%s) LIKE ?", column)
	}
	return fmt.Sprintf("%s ILIKE ?", column)
}

// NormalizeLikePattern prepares a LIKE pattern for the expression
// CaseInsensitiveLikeExpr produced on this connection.
func NormalizeLikePattern(conn *gorm.DB, pattern string) string {
	if IsSQLite(conn) {
		return strings.ToLower(pattern)
	}
	return pattern
}
