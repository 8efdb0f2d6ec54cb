package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "session_cookies",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cookies (
  origin TEXT NOT NULL,
  domain TEXT NOT NULL DEFAULT '',
  path TEXT NOT NULL DEFAULT '/',
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  expires_at TEXT,
  secure INTEGER NOT NULL DEFAULT 0,
  http_only INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(origin, domain, path, name)
);
`,
	},
	{
		version: 2,
		name:    "undo_slots",
		sql: `
CREATE TABLE IF NOT EXISTS undo_slots (
  kind TEXT PRIMARY KEY,
  payload_json TEXT NOT NULL,
  removed_at TEXT NOT NULL
);
`,
	},
	{
		version: 3,
		name:    "analytics_snapshots",
		sql: `
CREATE TABLE IF NOT EXISTS analytics_snapshots (
  period TEXT NOT NULL,
  date TEXT NOT NULL,
  consistency_score REAL NOT NULL DEFAULT 0,
  calories_consumed REAL NOT NULL DEFAULT 0 CHECK(calories_consumed >= 0),
  water_ml REAL NOT NULL DEFAULT 0 CHECK(water_ml >= 0),
  protein_g REAL NOT NULL DEFAULT 0 CHECK(protein_g >= 0),
  carbs_g REAL NOT NULL DEFAULT 0 CHECK(carbs_g >= 0),
  fats_g REAL NOT NULL DEFAULT 0 CHECK(fats_g >= 0),
  workout_minutes REAL NOT NULL DEFAULT 0 CHECK(workout_minutes >= 0),
  workout_entries INTEGER NOT NULL DEFAULT 0,
  fetched_at TEXT NOT NULL,
  PRIMARY KEY(period, date)
);

CREATE INDEX IF NOT EXISTS idx_analytics_snapshots_period ON analytics_snapshots(period);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
