package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DB wraps the database connection with dialect support
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DialectFor returns the dialect for a storage type
func DialectFor(storageType string) (Dialect, error) {
	switch strings.ToLower(storageType) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", storageType)
	}
}

// OpenDB opens and configures a connection for the dialect
func OpenDB(ctx context.Context, dialect Dialect, cfg DialectConfig) (*DB, error) {
	db, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply dialect-specific configuration
	if err := dialect.ConfigureConnection(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// queryer runs dialect-rewritten statements on either the DB or a transaction
type queryer struct {
	conn interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	}
	dialect Dialect
}

func (q queryer) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.conn.ExecContext(ctx, q.dialect.RewriteQuery(query), args...)
}

func (q queryer) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.conn.QueryContext(ctx, q.dialect.RewriteQuery(query), args...)
}

func (q queryer) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.conn.QueryRowContext(ctx, q.dialect.RewriteQuery(query), args...)
}

// execReturningID executes an INSERT and returns the new row's ID.
// PostgreSQL gets a RETURNING clause since it has no LastInsertId.
func (q queryer) execReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	rewritten := q.dialect.RewriteQuery(query)

	if q.dialect.SupportsLastInsertId() {
		result, err := q.conn.ExecContext(ctx, rewritten, args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	rewritten = strings.TrimSuffix(strings.TrimSpace(rewritten), ";")
	rewritten += " RETURNING id"

	var id int64
	if err := q.conn.QueryRowContext(ctx, rewritten, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
