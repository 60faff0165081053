// Package storage provides SQLite persistence for the move journal: one
// session per puzzle run and one row per committed move.
package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// pragmas apply to every connection the pool opens.
var pragmas = []string{
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"busy_timeout(5000)",
}

// DB is a migrated session database.
type DB struct {
	*sql.DB
	path string
}

// DataDir returns ~/.cubeanim, creating it if needed. The database and
// the CLI state file both live there.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".cubeanim")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// DefaultDBPath returns the database path inside DataDir.
func DefaultDBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cubeanim.db"), nil
}

// Open opens (or creates) the database at dbPath and brings its schema up
// to date.
func Open(dbPath string) (*DB, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sqlDB, err := sql.Open("sqlite", abs+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer: the engine goroutine journals while the CLI reads.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, path: abs}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the absolute database file path. Active sessions in the
// state file are keyed by it.
func (db *DB) Path() string {
	return db.path
}

// MigrateUp applies pending migrations. Open already does this.
func (db *DB) MigrateUp() error {
	if err := applyMigrations(db.DB); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", db.path, err)
	}
	return nil
}

// CurrentVersion returns the applied schema version.
func (db *DB) CurrentVersion() (int, error) {
	return schemaVersion(db.DB)
}

// Transaction runs fn in a transaction, rolling back if it fails.
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
