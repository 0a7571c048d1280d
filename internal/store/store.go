package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/swiss/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the PRAGMA user_version a fully migrated database carries.
//
//	0 - tables from schema.sql only
//	1 - idx_matches_round, serving ReadRoundMatches
const schemaVersion = 1

// migrations[v] upgrades a database from user_version v to v+1.
var migrations = []func(*sql.DB) error{
	addRoundIndex,
}

// Store keeps a tournament in one SQLite file.
//
// All access goes through a single connection, so writes are serialized by
// the pool and SQLite never sees two writers.
type Store struct {
	db *sql.DB
}

// Open opens the tournament database at path, creating it if needed, and
// brings its schema up to date. ":memory:" gives a private in-memory store.
//
// Every connection runs with WAL journaling, synchronous=NORMAL, a 5s busy
// timeout, foreign keys on, and BEGIN IMMEDIATE transactions.
//
// Failing to open or reach the file wraps model.ErrUnavailable.
// Opening an already migrated database changes nothing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, model.ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w: %w", path, model.ErrUnavailable, err)
	}

	// One connection also keeps ":memory:" databases alive for the Store's lifetime
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// dsn adds the driver's immediate-transaction option to path.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_txlock=immediate"
}

// Close releases the connection. Safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for tests and diagnostics that need raw SQL.
func (s *Store) DB() *sql.DB {
	return s.db
}

// withTx runs fn in one transaction. The transaction commits only if fn
// returns nil; op prefixes every returned error.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func configure(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("configure: %q: %w", pragma, err)
		}
	}
	return nil
}

// migrate creates missing tables, then applies every migration newer than
// the database's user_version.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("migrate: create tables: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("migrate: read user_version: %w", err)
	}

	for v := version; v < schemaVersion; v++ {
		if err := migrations[v](db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("migrate: set user_version %d: %w", v+1, err)
		}
	}
	return nil
}

// addRoundIndex lets ReadRoundMatches seek one round of the ledger already
// in report order.
func addRoundIndex(db *sql.DB) error {
	_, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_matches_round ON matches(round, id)")
	return err
}

// verifyPragma compares a pragma's current value with expected.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
