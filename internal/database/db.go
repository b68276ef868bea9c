// Package database handles the SQLite store: opening, schema
// migrations, and per-domain repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the store at path, applies the
// pragmas the single-writer model relies on, and runs pending schema
// migrations. Use ":memory:" for tests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys are off by default in SQLite; cascade deletes from
	// categories depend on this pragma.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			closeQuietly(db)
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// Single logical writer: one connection avoids lock contention and
	// keeps transaction semantics simple.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Migrations run exclusively at open time, before any reader or
	// writer is admitted. A failed migration fails the open.
	if err := Migrate(ctx, db); err != nil {
		closeQuietly(db)
		return nil, err
	}

	return db, nil
}

var (
	sharedOnce sync.Once
	sharedDB   *sql.DB
	sharedErr  error
)

// OpenShared opens the store at path exactly once per process and
// returns the same handle to every caller. The guard exists because the
// store is a process-wide singleton; the handle itself is still passed
// explicitly to repositories by the composition root.
func OpenShared(ctx context.Context, path string) (*sql.DB, error) {
	sharedOnce.Do(func() {
		sharedDB, sharedErr = Open(ctx, path)
	})
	return sharedDB, sharedErr
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}
