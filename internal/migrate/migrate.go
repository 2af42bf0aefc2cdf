package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/pausa/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Status describes one known migration relative to the database version.
type Status struct {
	Migration
	Applied bool
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the current migration version and dirty state.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

// SetVersion sets the migration version and dirty state.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}

	if version > 0 {
		_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
		return err
	}
	return nil
}

// LoadMigrations reads the embedded migration files sorted by version.
func LoadMigrations() ([]Migration, error) {
	return loadFrom(migrations.FS)
}

func loadFrom(fsys fs.FS) ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		downPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s_%s.down.sql", matches[1], name))
		downSQL, err := fs.ReadFile(fsys, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	for i := 1; i < len(result); i++ {
		if result[i].Version == result[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", result[i].Version)
		}
	}

	return result, nil
}

// SplitSQL splits a SQL string into statements, dropping empty ones.
func SplitSQL(sql string) []string {
	var stmts []string
	for _, stmt := range strings.Split(sql, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Migrator applies migrations to a database and reports progress to Out.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
	out        io.Writer
}

// New creates a Migrator for the embedded migrations. Progress goes to out;
// pass io.Discard to silence it.
func New(db *sql.DB, out io.Writer) (*Migrator, error) {
	all, err := LoadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Migrator{db: db, migrations: all, out: out}, nil
}

// Latest returns the highest known migration version.
func (m *Migrator) Latest() int {
	if len(m.migrations) == 0 {
		return 0
	}
	return m.migrations[len(m.migrations)-1].Version
}

// Version ensures the tracking table exists and returns the current version.
// A dirty database is reported as an error.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	if err := EnsureMigrationsTable(ctx, m.db); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}
	version, dirty, err := GetCurrentVersion(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("database is in dirty state at version %d, manual intervention required", version)
	}
	return version, nil
}

// Up runs all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		if err := m.run(ctx, mig, true); err != nil {
			return err
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(m.out, "No migrations to run")
		return nil
	}
	fmt.Fprintf(m.out, "Migrated to version %d (%d migrations applied)\n", m.Latest(), count)
	return nil
}

// To migrates up or down until the database is at target.
func (m *Migrator) To(ctx context.Context, target int) error {
	if target < 0 || target > m.Latest() {
		return fmt.Errorf("unknown migration version %d (latest is %d)", target, m.Latest())
	}

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	switch {
	case target > current:
		for _, mig := range m.migrations {
			if mig.Version <= current {
				continue
			}
			if mig.Version > target {
				break
			}
			if err := m.run(ctx, mig, true); err != nil {
				return err
			}
		}
	case target < current:
		for i := len(m.migrations) - 1; i >= 0; i-- {
			mig := m.migrations[i]
			if mig.Version > current {
				continue
			}
			if mig.Version <= target {
				break
			}
			if mig.DownSQL == "" {
				return fmt.Errorf("no down migration for version %d", mig.Version)
			}
			if err := m.run(ctx, mig, false); err != nil {
				return err
			}
		}
	default:
		fmt.Fprintln(m.out, "Already at target version")
		return nil
	}

	fmt.Fprintf(m.out, "Migrated to version %d\n", target)
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	target := current - steps
	if target < 0 {
		target = 0
	}
	return m.To(ctx, target)
}

// Status lists every known migration and whether it is applied.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	current, err := m.Version(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]Status, 0, len(m.migrations))
	for _, mig := range m.migrations {
		statuses = append(statuses, Status{Migration: mig, Applied: mig.Version <= current})
	}
	return statuses, nil
}

func (m *Migrator) run(ctx context.Context, mig Migration, up bool) error {
	direction := "up"
	sqlContent := mig.UpSQL
	target := mig.Version
	if !up {
		direction = "down"
		sqlContent = mig.DownSQL
		target = mig.Version - 1
	}

	fmt.Fprintf(m.out, "  %s %03d_%s...\n", direction, mig.Version, mig.Name)

	if err := SetVersion(ctx, m.db, mig.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(sqlContent) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", mig.Version, direction, err, stmt)
		}
	}

	if err := SetVersion(ctx, m.db, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// RunAll runs all pending migrations silently.
func RunAll(ctx context.Context, db *sql.DB) error {
	m, err := New(db, io.Discard)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}
