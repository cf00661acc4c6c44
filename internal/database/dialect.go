package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported database
// engines so repositories can be written once with ? placeholders.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN builds the data source name from the connection settings.
	DSN(settings ConnSettings) string

	// RewriteQuery converts ? placeholders to the engine's syntax.
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements
	// sql.Result.LastInsertId.
	SupportsLastInsertId() bool

	// Configure applies engine-specific connection settings.
	Configure(db *sql.DB) error

	// MigrationsSubdir names the per-engine subdirectory of the
	// migrations directory.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL creating the
	// applied-migrations tracking table.
	CreateMigrationsTableQuery() string
}

// ConnSettings holds the connection parameters a dialect may need.
type ConnSettings struct {
	// Path is the database file, for SQLite.
	Path string

	// URL is the connection string, for PostgreSQL and MySQL.
	URL string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
