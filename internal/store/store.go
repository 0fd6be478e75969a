// Package store persists the assembly catalog in a local SQLite database.
//
// Referential integrity is enforced by SQLite itself: foreign keys are
// switched on for the store's connection and the schema carries the cascade
// rules. Every mutation runs in its own transaction which is committed on
// success and rolled back on any failure. Constraint failures reported by
// the driver surface as model.ErrConstraintViolation; all other driver
// failures surface as model.ErrStorage.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/papapumpkin/sysarch/internal/logger"
	"github.com/papapumpkin/sysarch/internal/model"
)

// querier is the subset of *sql.DB and *sql.Tx used by the read helpers.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements the entity store on top of SQLite. Read accessors are
// promoted from the embedded reader.
type Store struct {
	reader
	db   *sql.DB
	path string
	log  *logger.Logger
}

// Open opens (or creates) the catalog database at dbPath, enables foreign
// keys, WAL mode and busy timeout, and creates the schema tables if they do
// not exist. A nil log discards diagnostics.
func Open(ctx context.Context, dbPath string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// One connection: SQLite has a single writer, and PRAGMA foreign_keys is
	// per connection, so every statement must run on the configured one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []struct{ stmt, what string }{
		{"PRAGMA foreign_keys = ON", "enable foreign keys"},
		{"PRAGMA journal_mode=WAL", "enable WAL mode"},
		{"PRAGMA busy_timeout=5000", "set busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p.what, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	log.Debug("catalog opened", "path", dbPath)
	return &Store{reader: reader{q: db}, db: db, path: dbPath, log: log}, nil
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction on the store's connection. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(op+": begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		s.log.Warn("transaction rolled back", "op", op, "error", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(op+": commit", err)
	}
	return nil
}

// insert executes an INSERT inside tx and returns the new row id.
func insert(ctx context.Context, tx *sql.Tx, op, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, classify(op+": last insert id", err)
	}
	return id, nil
}

// mustAffect executes an UPDATE or DELETE inside tx and reports
// model.ErrNotFound when no row matched id.
func mustAffect(ctx context.Context, tx *sql.Tx, op string, id int64, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op+": rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s: %w: id %d", op, model.ErrNotFound, id)
	}
	return nil
}

// requireID rejects updates that do not carry an identifier.
func requireID(op string, id int64) error {
	if id == 0 {
		return fmt.Errorf("store: %s: %w: id is required", op, model.ErrInvalidArgument)
	}
	return nil
}

// classify wraps a driver error in the catalog error taxonomy.
func classify(op string, err error) error {
	if isConstraint(err) {
		return fmt.Errorf("store: %s: %w: %v", op, model.ErrConstraintViolation, err)
	}
	return fmt.Errorf("store: %s: %w: %w", op, model.ErrStorage, err)
}

// isConstraint reports whether err is an SQLite constraint failure. The
// primary result code lives in the low byte of extended codes.
func isConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// Stats holds row counts per catalog table.
type Stats map[string]int64

// Stats returns the number of rows in every catalog table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	tables := Tables()
	stats := make(Stats, len(tables))
	for _, t := range tables {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			return nil, classify("count "+t, err)
		}
		stats[t] = n
	}
	return stats, nil
}

// Tx exposes the read accessors bound to an open transaction, so checks
// performed before a write observe the same snapshot the write commits to.
type Tx struct {
	reader
}

// ReadTx runs fn against a consistent view inside a transaction that is
// always rolled back.
func (s *Store) ReadTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("read tx: begin", err)
	}
	defer tx.Rollback() //nolint:errcheck // nothing to commit
	return fn(Tx{reader: reader{q: tx}})
}

// nullID converts an optional reference into a driver value.
func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// nullString stores the empty string as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// idPtr converts a scanned nullable integer into an optional reference.
func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
