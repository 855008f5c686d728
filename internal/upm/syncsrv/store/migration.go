package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator is the subset of *migrate.Migrate this package depends on,
// so tests can substitute a fake engine without touching the
// filesystem or a real database.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine constructs a Migrator for a given migrations source
// and database URL.
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

// DefaultEngine wraps migrate.New for production use.
func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Migration applies the sqlite schema migrations read from a
// migrations directory on disk to a sqlite database (see Up).
type Migration struct {
	migrationsDir string
	engine        MigrationEngine
}

// NewMigration constructs a Migration that reads *.sql files from
// migrationsDir using engine.
func NewMigration(migrationsDir string, engine MigrationEngine) *Migration {
	return &Migration{migrationsDir: migrationsDir, engine: engine}
}

// Up applies all pending migrations to the sqlite database at dbPath.
func (mg *Migration) Up(dbPath string) error {
	m, err := mg.engine("file://"+mg.migrationsDir, "sqlite3://"+dbPath)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: applying migrations: %w", err)
	}
	return nil
}
