package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations for the dialect that have not run yet
func (db *DB) RunMigrations(ctx context.Context) error {
	dir := path.Join("migrations", db.Dialect.Name())
	return db.applyMigrations(ctx, migrationsFS, dir)
}

func (db *DB) applyMigrations(ctx context.Context, fsys fs.FS, dir string) error {
	q := queryer{conn: db.DB, dialect: db.Dialect}

	if _, err := q.exec(ctx, db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	// Sort files to ensure they run in order
	sort.Strings(files)

	for _, filename := range files {
		var count int
		if err := q.queryRow(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE name = ?", filename).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		for _, stmt := range splitStatements(string(content)) {
			if _, err := q.exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}
		}

		if _, err := q.exec(ctx, "INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)",
			filename, time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
	}
	return nil
}

// splitStatements breaks a migration into single statements; not every driver accepts several per Exec.
// Line comments are dropped. Statements must not contain literal semicolons.
func splitStatements(content string) []string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var stmts []string
	for _, part := range strings.Split(b.String(), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
