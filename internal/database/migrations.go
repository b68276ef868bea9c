package database

import (
	"context"
	"database/sql"
	"fmt"
)

// MigrationError reports the step that failed; it is fatal to store
// startup.
type MigrationError struct {
	Version int
	Name    string
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %d (%s) failed: %v", e.Version, e.Name, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// A migration is one step in the schema version chain. Steps must be
// idempotent when re-applied to a database already at their target
// version, so every DDL statement uses IF NOT EXISTS and data fixes are
// written to be safe on already-fixed rows.
type migration struct {
	version int
	name    string
	apply   func(context.Context, *sql.Tx) error
}

var migrations = []migration{
	{1, "core tables", migrateCoreTables},
	{2, "screen time tables", migrateScreenTime},
	{3, "dedupe screen time sessions", migrateDedupeScreenSessions},
	{4, "user profile", migrateUserProfile},
}

// Migrate applies every pending migration, one transaction per step.
// The schema version lives in PRAGMA user_version and is bumped inside
// the same transaction as the step, so a failure rolls back to the
// pre-migration state rather than leaving a partial upgrade.
func Migrate(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion reports the store's current schema version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	return schemaVersion(ctx, db)
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &MigrationError{Version: m.version, Name: m.name, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := m.apply(ctx, tx); err != nil {
		return &MigrationError{Version: m.version, Name: m.name, Err: err}
	}

	// PRAGMA does not support placeholders; the version is ours, not
	// user input.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return &MigrationError{Version: m.version, Name: m.name, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &MigrationError{Version: m.version, Name: m.name, Err: err}
	}
	return nil
}

func migrateCoreTables(ctx context.Context, tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		daily_goal INTEGER,
		active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS habits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		period_days INTEGER NOT NULL DEFAULT 1,
		everyday INTEGER NOT NULL DEFAULT 1,
		reminder_hour INTEGER,
		reminder_minute INTEGER,
		active INTEGER NOT NULL DEFAULT 1,
		created_date TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- One completion per habit per calendar day. The composite key is
	-- what makes day-level logging idempotent.
	CREATE TABLE IF NOT EXISTS habit_completions (
		habit_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (habit_id, date)
	);

	CREATE TABLE IF NOT EXISTS time_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_category_date
		ON time_sessions(category_id, date);

	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_category_date
		ON expenses(category_id, date);
	CREATE INDEX IF NOT EXISTS idx_expenses_date
		ON expenses(date);

	CREATE TABLE IF NOT EXISTS daily_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_daily_tasks_date
		ON daily_tasks(date);

	CREATE TABLE IF NOT EXISTS subscriptions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		period_days INTEGER NOT NULL DEFAULT 30,
		next_due TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS date_calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bmi_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		height_cm REAL NOT NULL,
		weight_kg REAL NOT NULL,
		bmi REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := tx.ExecContext(ctx, schema)
	return err
}

func migrateScreenTime(ctx context.Context, tx *sql.Tx) error {
	// screen_time_sessions ships without a uniqueness constraint on
	// session_start; migration 3 installs it after de-duplicating.
	schema := `
	CREATE TABLE IF NOT EXISTS screen_time_hourly (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		hour INTEGER NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0,
		UNIQUE (date, hour)
	);

	CREATE TABLE IF NOT EXISTS screen_time_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		session_start TIMESTAMP NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_screen_sessions_date
		ON screen_time_sessions(date);

	CREATE TABLE IF NOT EXISTS screen_time_daily (
		date TEXT PRIMARY KEY,
		total INTEGER NOT NULL DEFAULT 0,
		unlock_count INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := tx.ExecContext(ctx, schema)
	return err
}

// migrateDedupeScreenSessions removes duplicate screen-time sessions
// sharing a session_start before installing the uniqueness constraint.
// The survivor per duplicate group is the row with the lowest id, which
// keeps the choice deterministic. Installing the index without the
// DELETE would fail on historical duplicates.
func migrateDedupeScreenSessions(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM screen_time_sessions
		WHERE id NOT IN (
			SELECT MIN(id) FROM screen_time_sessions GROUP BY session_start
		)`); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_screen_sessions_start
			ON screen_time_sessions(session_start)`)
	return err
}

func migrateUserProfile(ctx context.Context, tx *sql.Tx) error {
	// CHECK (id = 1) enforces the at-most-one-row invariant in the
	// schema itself.
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS user_profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		display_name TEXT NOT NULL DEFAULT '',
		week_start INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}
