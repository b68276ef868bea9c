package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// SetupTestDB opens an in-memory store with the full migrated schema.
// The handle is closed automatically when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepository wires an in-memory store into a repository with a
// live event broker.
func SetupTestRepository(t *testing.T) (*database.Repository, *events.Broker) {
	t.Helper()
	bus := events.NewBroker()
	return database.NewRepository(SetupTestDB(t), bus), bus
}

// CreateTestCategory inserts a category and returns its id.
func CreateTestCategory(t *testing.T, repo *database.Repository, name string, kind models.CategoryKind) int {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), &models.Category{
		Name:   name,
		Kind:   kind,
		Active: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return c.ID
}

// CreateTestHabit inserts an active everyday habit and returns its id.
func CreateTestHabit(t *testing.T, repo *database.Repository, name string, typ models.HabitType) int {
	t.Helper()
	h, err := repo.CreateHabit(context.Background(), &models.Habit{
		Name:        name,
		Type:        typ,
		PeriodDays:  1,
		Everyday:    true,
		Active:      true,
		CreatedDate: models.Today(),
	})
	if err != nil {
		t.Fatalf("Failed to create test habit: %v", err)
	}
	return h.ID
}

// LogTestCompletion records a completion for the given habit and date.
func LogTestCompletion(t *testing.T, repo *database.Repository, habitID int, date string, kind models.CompletionKind) {
	t.Helper()
	err := repo.LogCompletion(context.Background(), &models.HabitCompletion{
		HabitID: habitID,
		Date:    date,
		Kind:    kind,
	})
	if err != nil {
		t.Fatalf("Failed to log test completion: %v", err)
	}
}

// CreateTestSession inserts a time session and returns its id.
func CreateTestSession(t *testing.T, repo *database.Repository, categoryID int, date string, duration int64) int {
	t.Helper()
	s, err := repo.CreateSession(context.Background(), &models.TimeSession{
		CategoryID: categoryID,
		Date:       date,
		Duration:   duration,
	})
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return s.ID
}

// CreateTestExpense inserts an expense and returns its id. Amount is a
// decimal string such as "12.50".
func CreateTestExpense(t *testing.T, repo *database.Repository, categoryID int, date, amount string) int {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("Bad test amount %q: %v", amount, err)
	}
	e, err := repo.CreateExpense(context.Background(), &models.Expense{
		CategoryID: categoryID,
		Date:       date,
		Amount:     amt,
	})
	if err != nil {
		t.Fatalf("Failed to create test expense: %v", err)
	}
	return e.ID
}

// CreateTestTask inserts a daily task and returns its id.
func CreateTestTask(t *testing.T, repo *database.Repository, title, date string) int {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), &models.DailyTask{
		Title: title,
		Date:  date,
	})
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return task.ID
}
