// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the server builds
// without a C toolchain. Use ":memory:" for tests.
//
// SCHEMA:
//
//	accounts       id, name (UNIQUE), name_key, password, role, created_at
//	practice_logs  id, user_id, skill_name, content, word_count, post_link,
//	               status, created_at
//
// practice_logs.user_id is not a foreign key: deleting an account leaves
// its logs behind, and the admin listing shows them with an empty user name.
//
// NAME LOOKUPS:
// Sign-up and sign-in compare names byte for byte against accounts.name.
// Profile lookups ignore case, which SQLite's NOCASE cannot do for Cyrillic,
// so every write also stores a case-folded copy in name_key and those
// lookups query that column instead.
//
// ERRORS:
// sql.ErrNoRows becomes apperror.NotFound and a UNIQUE violation on
// accounts.name becomes apperror.DuplicateName. Everything else is wrapped
// with a "sqlite: ..." prefix and left for the service to log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and implements both
// repository.AccountRepository and repository.LogRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is its own empty database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
//
// practice_logs.user_id is not a foreign key: deleting an
// account leaves its logs behind.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			name_key   TEXT NOT NULL,
			password   TEXT NOT NULL,
			role       TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_accounts_name_key ON accounts(name_key);
		CREATE INDEX IF NOT EXISTS idx_accounts_created_at ON accounts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS practice_logs (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			skill_name TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			post_link  TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_practice_logs_user_id ON practice_logs(user_id);
		CREATE INDEX IF NOT EXISTS idx_practice_logs_created_at ON practice_logs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating practice_logs table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
