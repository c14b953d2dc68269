package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema if it doesn't exist yet.
func (db *DB) RunMigrations() error {
	migration := `
-- Weekly sessions, keyed by canonical session timestamp
CREATE TABLE IF NOT EXISTS sessions (
    date TEXT PRIMARY KEY,
    charge TEXT NOT NULL,
    courts INTEGER NOT NULL DEFAULT 0,
    rows_processed INTEGER NOT NULL DEFAULT 0,
    away_venue INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Session rosters, in signup order
CREATE TABLE IF NOT EXISTS attendees (
    session_date TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (session_date, name),
    FOREIGN KEY (session_date) REFERENCES sessions(date) ON DELETE CASCADE
);

-- Current amount per attendee per payment kind
CREATE TABLE IF NOT EXISTS payments (
    session_date TEXT NOT NULL,
    attendee TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('transfer', 'cash', 'host', 'no show')),
    amount TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_date, attendee, kind),
    FOREIGN KEY (session_date, attendee) REFERENCES attendees(session_date, name) ON DELETE CASCADE
);

-- Append-only account-to-attendee directory
CREATE TABLE IF NOT EXISTS aliases (
    account_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (account_id, name)
);
CREATE INDEX IF NOT EXISTS idx_alias_account ON aliases(account_id);

-- Who has historically paid for whom
CREATE TABLE IF NOT EXISTS obo_pairs (
    donor TEXT NOT NULL,
    recipient TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (donor, recipient)
);

-- Payments unrelated to any session's dues
CREATE TABLE IF NOT EXISTS incidental_payments (
    id TEXT PRIMARY KEY,
    date TIMESTAMP NOT NULL,
    source TEXT NOT NULL,
    amount TEXT NOT NULL,
    reason TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_incidental_date ON incidental_payments(date);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// dateKey renders a session timestamp as its storage key.
func dateKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}
