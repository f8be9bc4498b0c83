// Package sqlite persists the flat record collections (students,
// assessments, study sessions) behind the insight.DatasetService
// interface. The analysis engine never touches this package, it only sees
// loaded snapshots.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/insightdash/insight"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the sql database handle together with its migration state.
type DB struct {
	db *sql.DB

	// DSN of the database, e.g. "file:insight.db" or ":memory:".
	DSN string
}

// NewDB creates a DB for the given dsn. Call Open before use.
func NewDB(dsn string) *DB {
	return &DB{DSN: dsn}
}

// Open opens the database, enables foreign keys and runs any pending
// migrations.
func (db *DB) Open() (err error) {
	if db.DSN == "" {
		return insight.Errorf(insight.EINVALID, "dsn required")
	}

	if db.db, err = sql.Open("sqlite3", db.DSN); err != nil {
		return err
	}

	if _, err := db.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	return db.migrate()
}

// migrate runs the embedded migration files against the open database.
func (db *DB) migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Close closes the underlying database handle. no-op if never opened.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// BeginTx starts a transaction on the underlying handle.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}
