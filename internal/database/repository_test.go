package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	err := repo.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO daily_tasks (title, date, done) VALUES (?, ?, 0)`,
			"write report", "2026-08-30")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	tasks, err := repo.GetTasksByDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("GetTasksByDate failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "write report" {
		t.Errorf("Expected committed task, got %+v", tasks)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_tasks (title, date, done) VALUES (?, ?, 0)`,
			"never lands", "2026-08-30"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected fn error back, got %v", err)
	}

	tasks, err := repo.GetTasksByDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("GetTasksByDate failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected rollback to discard the insert, got %+v", tasks)
	}
}
