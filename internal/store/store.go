package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// timeLayout keeps fixed-width UTC timestamps so string comparison in SQL
// matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS buckets (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL DEFAULT '',
		type            TEXT NOT NULL DEFAULT '',
		client          TEXT NOT NULL DEFAULT '',
		hostname        TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL DEFAULT '',
		last_synced_at  TEXT
	);

	CREATE TABLE IF NOT EXISTS window_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		bucket_id   TEXT NOT NULL REFERENCES buckets(id),
		aw_id       INTEGER,
		timestamp   TEXT NOT NULL,
		duration    REAL NOT NULL DEFAULT 0,
		app         TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		UNIQUE(bucket_id, timestamp, app, title)
	);

	CREATE INDEX IF NOT EXISTS idx_events_bucket    ON window_events(bucket_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON window_events(timestamp);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('include_web',  'false'),
		('report_mode',  'daily'),
		('top_n',        '10'),
		('week_start',   'monday'),
		('chart_height', '12');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/foldertime/foldertime.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "foldertime", "foldertime.db"), nil
}
