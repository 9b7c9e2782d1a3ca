// Package sqlite implements the repository interfaces on SQLite.
//
// We use modernc.org/sqlite — a pure Go translation of SQLite — so no C
// compiler is needed and cross-compilation stays trivial. The driver
// registers itself with database/sql under the name "sqlite" via the
// blank import below.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. New creates it, Close releases it; the server owns the
// lifecycle.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs the
// schema migrations. Use ":memory:" for a throwaway database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection: if the pool grew, every
	// new connection would see a fresh, unmigrated schema. One connection
	// keeps ":memory:" coherent.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open doesn't touch the file; Ping forces a real connection so a
	// bad path fails here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — important for a
	// web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them ON for the
	// ON DELETE CASCADE chains (user → items → achievements).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
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

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email
			ON users(email) WHERE email != '';
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name          TEXT NOT NULL,
			color         TEXT NOT NULL DEFAULT '#FF6B6B',
			material      TEXT NOT NULL DEFAULT 'cotton',
			custom_washes INTEGER NOT NULL DEFAULT 60,
			accessories   TEXT NOT NULL DEFAULT '[]',
			purchase_date TEXT NOT NULL,
			wash_count    INTEGER NOT NULL DEFAULT 0,
			retired       INTEGER NOT NULL DEFAULT 0,
			retired_date  DATETIME,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_items_user_id ON items(user_id);
		CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	// UNIQUE(item_id, name) is what makes badge grants idempotent: the
	// wash transaction inserts with ON CONFLICT DO NOTHING.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			item_id     TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL,
			icon        TEXT NOT NULL,
			tier        TEXT NOT NULL,
			unlocked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(item_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_achievements_item_id ON achievements(item_id);
	`)
	if err != nil {
		return fmt.Errorf("creating achievements table: %w", err)
	}

	return nil
}
