package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationManager collects goose-format schema files embedded by modules and
// applies their Up sections exactly once each, tracked in schema_migrations.
type MigrationManager interface {
	RegisterSchema(fsys ...*embed.FS)
	Run(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(fsys ...*embed.FS) {
	m.schemas = append(m.schemas, fsys...)
}

func (m *migrationManager) Run(ctx context.Context) error {
	if m.pool == nil {
		return fmt.Errorf("migrations: no database pool")
	}

	if _, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("migrations: ensure ledger: %w", err)
	}

	for _, fsys := range m.schemas {
		files, err := collectSQLFiles(fsys)
		if err != nil {
			return err
		}
		for _, file := range files {
			if err := m.applyOnce(ctx, fsys, file); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *migrationManager) applyOnce(ctx context.Context, fsys *embed.FS, file string) error {
	var applied bool
	if err := m.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)`, file,
	).Scan(&applied); err != nil {
		return fmt.Errorf("migrations: check %s: %w", file, err)
	}
	if applied {
		return nil
	}

	raw, err := fsys.ReadFile(file)
	if err != nil {
		return fmt.Errorf("migrations: read %s: %w", file, err)
	}
	up := ExtractGooseUp(string(raw))
	if strings.TrimSpace(up) == "" {
		return fmt.Errorf("migrations: %s has no statements", file)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Simple protocol: schema files hold multiple statements.
	if _, err := tx.Exec(ctx, up, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("migrations: apply %s: %w", file, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, file); err != nil {
		return fmt.Errorf("migrations: record %s: %w", file, err)
	}
	return tx.Commit(ctx)
}

func collectSQLFiles(fsys *embed.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("migrations: walk schema fs: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ExtractGooseUp returns the statements between the goose Up and Down
// markers, or the whole input when no markers are present.
func ExtractGooseUp(raw string) string {
	const up = "-- +goose Up"
	const down = "-- +goose Down"
	start := strings.Index(raw, up)
	if start < 0 {
		return raw
	}
	raw = raw[start+len(up):]
	if end := strings.Index(raw, down); end >= 0 {
		raw = raw[:end]
	}
	return raw
}
