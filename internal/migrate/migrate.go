// Package migrate applies SQL schema migrations from a directory.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Runner applies pending .up.sql migrations in lexical order and
// records each applied file in a schema_migrations table.
type Runner struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger
}

// NewRunner creates a migration runner over the given database handle
// and migrations directory.
func NewRunner(db *sql.DB, dir string, logger *slog.Logger) *Runner {
	return &Runner{
		db:     db,
		dir:    dir,
		logger: logger,
	}
}

// Files returns the migration file names in apply order.
func (r *Runner) Files() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		files = append(files, e.Name())
	}

	sort.Strings(files)
	return files, nil
}

// Up applies all pending migrations and returns how many were applied.
// Each migration runs in its own transaction together with its ledger
// row, so a failed migration leaves the ledger consistent.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return 0, err
	}

	applied, err := r.applied(ctx)
	if err != nil {
		return 0, err
	}

	files, err := r.Files()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range files {
		if applied[name] {
			continue
		}
		if err := r.apply(ctx, name); err != nil {
			return count, fmt.Errorf("apply %s: %w", name, err)
		}
		r.logger.Info("migration applied", "name", name)
		count++
	}

	return count, nil
}

func (r *Runner) ensureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]bool, error) {
	const q = `SELECT name FROM schema_migrations`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		out[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema_migrations: %w", err)
	}
	return out, nil
}

func (r *Runner) apply(ctx context.Context, name string) error {
	body, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	const record = `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, record, name, time.Now().UTC()); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	return tx.Commit()
}
