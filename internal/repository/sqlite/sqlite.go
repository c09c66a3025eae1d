// Package sqlite implements the repository interfaces on SQLite through
// database/sql and the pure-Go modernc.org/sqlite driver (no cgo).
//
// One *DB owns the connection pool; Users, Contents and ShareLinks hand out
// thin typed views over it, one per repository interface.
//
// CONNECTION SETTINGS:
// Pragmas go in the DSN (`_pragma=...`) rather than through a one-off Exec,
// because database/sql opens connections lazily and an Exec'd pragma only
// reaches whichever connection ran it. foreign_keys in particular is
// per-connection and off by default.
//
// ":memory:" gives every connection its own empty database, so the pool is
// pinned to a single connection in that case.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/second-brain/internal/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the database at path and runs migrations.
//
// path examples:
//   - "data/second-brain.db" → file-based database (persistent)
//   - ":memory:"             → in-memory database, lost on Close
func New(ctx context.Context, path string) (*DB, error) {
	memory := path == MemoryPath

	conn, err := sql.Open("sqlite", dsn(path, memory))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	if memory {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open is lazy; Ping surfaces a bad path or permissions at boot.
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func dsn(path string, memory bool) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if !memory {
		// WAL lets readers proceed while a write is in progress.
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pragmas, "&")
}

func (db *DB) Users() repository.UserRepository {
	return &UserDB{conn: db.conn}
}

func (db *DB) Contents() repository.ContentRepository {
	return &ContentDB{conn: db.conn}
}

func (db *DB) ShareLinks() repository.ShareLinkRepository {
	return &ShareLinkDB{conn: db.conn}
}

// Ping checks the database is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS makes it safe to run
// on every start.
//
// Timestamps are written as UTC time.Time values; the driver stores them as
// text that sorts chronologically, and scans DATETIME columns back into
// time.Time.
func (db *DB) migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL DEFAULT '',
			name          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS contents (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			link       TEXT NOT NULL,
			body       TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL DEFAULT 'resources',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_contents_owner_created ON contents(owner_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating contents table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS share_links (
			owner_id   TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			hash       TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating share_links table: %w", err)
	}

	return nil
}

// isForeignKeyViolation reports whether err came from a FOREIGN KEY
// constraint, which for these tables means the owner row is gone.
func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
