package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string {
	return "mysql"
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at BIGINT NOT NULL
		) ENGINE=InnoDB;
	`
}

// ER_DUP_ENTRY, ER_LOCK_DEADLOCK
func (d *MySQLDialect) IsConflict(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == 1062 || myErr.Number == 1213
}
