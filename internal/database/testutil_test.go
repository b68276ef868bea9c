package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/models"
)

// setupTestDB opens a fully migrated in-memory store.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(setupTestDB(t), nil)
}

func mustCategory(t *testing.T, repo *Repository, name string, kind models.CategoryKind) *models.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), &models.Category{
		Name:   name,
		Kind:   kind,
		Active: true,
	})
	if err != nil {
		t.Fatalf("Failed to create category %q: %v", name, err)
	}
	return c
}

func mustHabit(t *testing.T, repo *Repository, name string) *models.Habit {
	t.Helper()
	h, err := repo.CreateHabit(context.Background(), &models.Habit{
		Name:        name,
		Type:        models.HabitBuild,
		PeriodDays:  1,
		Everyday:    true,
		Active:      true,
		CreatedDate: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("Failed to create habit %q: %v", name, err)
	}
	return h
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Bad decimal %q: %v", s, err)
	}
	return d
}
