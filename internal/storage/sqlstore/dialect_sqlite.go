package sqlstore

import (
	"database/sql"
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteDialect implements Dialect for SQLite via the pure-Go modernc driver
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite"
}

func (d *SQLiteDialect) DSN(config DialectConfig) string {
	return config.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? placeholders, no rewrite needed
	return query
}

func (d *SQLiteDialect) SupportsLastInsertId() bool {
	return true
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// One writer at a time; pragmas in the DSN apply per connection
	db.SetMaxOpenConns(1)
	return nil
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at INTEGER NOT NULL
		);
	`
}

func (d *SQLiteDialect) IsConflict(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_BUSY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
