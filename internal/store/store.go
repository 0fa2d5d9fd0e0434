// Package store persists documents and their sections in a relational
// database through database/sql. Postgres (pgx) and SQLite share one set of
// queries; only the embedded migrations differ.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document or section does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a database handle opened with Open.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New returns a Store over db.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Dialect reports the driver the store was built for.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Migrate applies the embedded migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	fsys, err := Migrations(s.dialect)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	return ApplyMigrations(ctx, s.db, fsys)
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
