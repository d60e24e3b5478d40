// Package db provides the relational store handle backing the userbase. Two
// backends expose identical semantics: an embedded single-file SQLite
// database and a networked PostgreSQL database. Statements are written once
// with ? placeholders; the handle rebinds them for the active dialect and
// always binds parameters positionally, never interpolating values into SQL
// text.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Backend discriminates the relational backend, fixed at construction time.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Config carries backend selection and connection settings.
type Config struct {
	Backend Backend
	Path    string // sqlite file path
	DSN     string // postgres connection string
}

// Store is a long-lived handle over one *sql.DB pool. Construct it once in
// main and inject it; Close is idempotent.
type Store struct {
	db      *sql.DB
	backend Backend

	closeOnce sync.Once
	closeErr  error
}

// Open creates the store handle for the configured backend, applies
// connection settings, and ensures the schema exists. The caller owns the
// handle's lifecycle.
func Open(cfg Config) (*Store, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return openSQLite(cfg.Path)
	case BackendPostgres:
		return openPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown db backend %q", cfg.Backend)
	}
}

// NewStore wraps an existing *sql.DB. Used by Open and by tests that
// substitute a mock connection.
func NewStore(db *sql.DB, backend Backend) *Store {
	return &Store{db: db, backend: backend}
}

// Backend returns the dialect this store was constructed with.
func (s *Store) Backend() Backend { return s.backend }

// Query executes a parameterized read and returns its rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// QueryRow executes a parameterized read expected to return at most one row.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// Exec executes a parameterized write and reports whether at least one row
// was affected.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Close releases the underlying pool. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// rebind rewrites ? placeholders to the $N form when the backend is
// PostgreSQL. Literal question marks inside quoted strings are not handled;
// statements in this codebase never contain them.
func (s *Store) rebind(query string) string {
	if s.backend != BackendPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
