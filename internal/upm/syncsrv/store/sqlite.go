package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Sqlite is a Store backed by a sqlite database, suitable for a
// long-lived reference sync server process.
type Sqlite struct {
	db *sql.DB
}

// OpenSqlite opens (and, via migrationsDir, migrates) a sqlite
// database at path as a Store.
func OpenSqlite(path, migrationsDir string) (*Sqlite, error) {
	if err := NewMigration(migrationsDir, DefaultEngine).Up(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite database: %w", err)
	}
	return &Sqlite{db: db}, nil
}

// Close closes the underlying sqlite connection.
func (s *Sqlite) Close() error {
	return s.db.Close()
}

func (s *Sqlite) Get(ctx context.Context, name string) ([]byte, uint32, error) {
	var blob []byte
	var revision uint32
	row := s.db.QueryRowContext(ctx, `SELECT blob, revision FROM databases WHERE name = ?`, name)
	if err := row.Scan(&blob, &revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return blob, revision, nil
}

// Revision returns 0, nil for a database that has never been
// uploaded: getdbrevision.php's wire contract is to report "0" for an
// unknown database, not to fail, so a brand-new local database can
// probe the remote revision before its first upload.
func (s *Sqlite) Revision(ctx context.Context, name string) (uint32, error) {
	var revision uint32
	row := s.db.QueryRowContext(ctx, `SELECT revision FROM databases WHERE name = ?`, name)
	if err := row.Scan(&revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return revision, nil
}

func (s *Sqlite) Put(ctx context.Context, name string, blob []byte) (uint32, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var revision uint32
	row := tx.QueryRowContext(ctx, `SELECT revision FROM databases WHERE name = ?`, name)
	switch err := row.Scan(&revision); {
	case err == nil:
		revision++
		if _, err := tx.ExecContext(ctx, `UPDATE databases SET revision = ?, blob = ? WHERE name = ?`, revision, blob, name); err != nil {
			return 0, err
		}
	case errors.Is(err, sql.ErrNoRows):
		revision = 1
		if _, err := tx.ExecContext(ctx, `INSERT INTO databases (name, revision, blob) VALUES (?, ?, ?)`, name, revision, blob); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return revision, nil
}

func (s *Sqlite) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM databases WHERE name = ?`, name)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
