package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) SupportsLastInsertId() bool {
	// PostgreSQL doesn't support LastInsertId(), needs RETURNING clause
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at BIGINT NOT NULL
		);
	`
}

// unique_violation, serialization_failure, deadlock_detected
func (d *PostgresDialect) IsConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "23505", "40001", "40P01":
		return true
	}
	return false
}
