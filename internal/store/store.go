package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection: the countdown engine is the only writer and all
	// mutations funnel through one serialization point.
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
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pack_price_cents',    '1000'),
		('cigarettes_per_pack', '20'),
		('mode',                'quota'),
		('daily_quota',         '20'),
		('window_start_min',    '420'),
		('window_end_min',      '1380'),
		('spacing_hours',       '1'),
		('spacing_minutes',     '0'),
		('usual_daily',         '30');

	CREATE TABLE IF NOT EXISTS timer_state (
		id                INTEGER PRIMARY KEY CHECK (id = 1),
		interval_ms       INTEGER NOT NULL DEFAULT 0,
		cigarette_count   INTEGER NOT NULL DEFAULT 0,
		last_update_ms    INTEGER NOT NULL DEFAULT 0,
		last_cigarette_ms INTEGER,
		next_cigarette_ms INTEGER
	);

	INSERT OR IGNORE INTO timer_state (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS daily_reports (
		date                 TEXT NOT NULL,
		type                 TEXT NOT NULL,
		cigarettes_smoked    INTEGER NOT NULL DEFAULT 0,
		avg_time_exceeded_ms INTEGER NOT NULL DEFAULT 0,
		avg_interval_ms      INTEGER NOT NULL DEFAULT 0,
		money_saved_cents    INTEGER NOT NULL DEFAULT 0,
		overrun_count        INTEGER NOT NULL DEFAULT 0,
		updated_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (date, type)
	);

	CREATE INDEX IF NOT EXISTS idx_reports_type ON daily_reports(type);

	CREATE TABLE IF NOT EXISTS held_intervals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		duration_ms INTEGER NOT NULL,
		recorded_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/pacer/pacer.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pacer", "pacer.db"), nil
}
