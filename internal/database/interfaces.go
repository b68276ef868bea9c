// Package database defines repository interfaces for data access.
package database

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/models"
)

// DataStore is the unified interface consumed by services and the CLI.
// It exists as a seam: services depend on behavior, tests substitute
// fakes without a database.
type DataStore interface {
	// Categories
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	GetCategories(ctx context.Context, activeOnly bool) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	ArchiveCategory(ctx context.Context, id int) error
	DeleteCategory(ctx context.Context, id int) error

	// Habits
	CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error)
	SaveHabit(ctx context.Context, h *models.Habit) error
	GetHabits(ctx context.Context, activeOnly bool) ([]*models.Habit, error)
	GetHabitByID(ctx context.Context, id int) (*models.Habit, error)
	UpdateHabit(ctx context.Context, h *models.Habit) error
	ArchiveHabit(ctx context.Context, id int) error

	// Habit completions
	LogCompletion(ctx context.Context, c *models.HabitCompletion) error
	GetCompletion(ctx context.Context, habitID int, date string) (*models.HabitCompletion, error)
	GetCompletions(ctx context.Context, habitID int, from, to string) ([]*models.HabitCompletion, error)
	DeleteCompletion(ctx context.Context, habitID int, date string) error
	CountCompletions(ctx context.Context, habitID int, from, to string) (int, error)

	// Time sessions
	CreateSession(ctx context.Context, s *models.TimeSession) (*models.TimeSession, error)
	GetSessionByID(ctx context.Context, id int) (*models.TimeSession, error)
	GetSessions(ctx context.Context, categoryID int, from, to string) ([]*models.TimeSession, error)
	UpdateSession(ctx context.Context, s *models.TimeSession) error
	DeleteSession(ctx context.Context, id int) error
	SumDuration(ctx context.Context, categoryID int, from, to string) (int64, error)
	SessionTotalsByDate(ctx context.Context, from, to string) ([]*models.DateDuration, error)
	SessionTotalsByCategory(ctx context.Context, from, to string) ([]*models.CategoryDuration, error)

	// Expenses
	CreateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error)
	GetExpenseByID(ctx context.Context, id int) (*models.Expense, error)
	GetExpenses(ctx context.Context, categoryID int, from, to string) ([]*models.Expense, error)
	UpdateExpense(ctx context.Context, e *models.Expense) error
	DeleteExpense(ctx context.Context, id int) error
	SumExpenses(ctx context.Context, categoryID int, from, to string) (decimal.Decimal, error)
	ExpenseTotalsByDate(ctx context.Context, from, to string) ([]*models.DateAmount, error)
	ExpenseTotalsByCategory(ctx context.Context, from, to string) ([]*models.CategoryAmount, error)

	// Daily tasks
	CreateTask(ctx context.Context, t *models.DailyTask) (*models.DailyTask, error)
	GetTaskByID(ctx context.Context, id int) (*models.DailyTask, error)
	GetTasksByDate(ctx context.Context, date string) ([]*models.DailyTask, error)
	UpdateTask(ctx context.Context, t *models.DailyTask) error
	SetTaskDone(ctx context.Context, id int, done bool) error
	DeleteTask(ctx context.Context, id int) error
	CountTasksByDate(ctx context.Context, date string) (models.TaskCounts, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, s *models.Subscription) (*models.Subscription, error)
	GetSubscriptionByID(ctx context.Context, id int) (*models.Subscription, error)
	GetSubscriptions(ctx context.Context, activeOnly bool) ([]*models.Subscription, error)
	UpdateSubscription(ctx context.Context, s *models.Subscription) error
	DeleteSubscription(ctx context.Context, id int) error
	SumActiveSubscriptions(ctx context.Context) (decimal.Decimal, error)

	// Date calculations
	CreateDateCalculation(ctx context.Context, d *models.DateCalculation) (*models.DateCalculation, error)
	GetDateCalculationByID(ctx context.Context, id int) (*models.DateCalculation, error)
	GetDateCalculations(ctx context.Context) ([]*models.DateCalculation, error)
	DeleteDateCalculation(ctx context.Context, id int) error

	// BMI history
	CreateBMIRecord(ctx context.Context, b *models.BMIRecord) (*models.BMIRecord, error)
	GetBMIRecordByID(ctx context.Context, id int) (*models.BMIRecord, error)
	GetBMIRecords(ctx context.Context) ([]*models.BMIRecord, error)
	LatestBMIRecord(ctx context.Context) (*models.BMIRecord, error)
	DeleteBMIRecord(ctx context.Context, id int) error

	// Screen time
	UpsertHourly(ctx context.Context, h *models.ScreenTimeHourly) error
	GetHourly(ctx context.Context, date string) ([]*models.ScreenTimeHourly, error)
	InsertScreenSession(ctx context.Context, s *models.ScreenTimeSession) error
	GetScreenSessions(ctx context.Context, date string) ([]*models.ScreenTimeSession, error)
	UpsertDaily(ctx context.Context, d *models.ScreenTimeDaily) error
	GetDaily(ctx context.Context, date string) (*models.ScreenTimeDaily, error)
	GetDailyRange(ctx context.Context, from, to string) ([]*models.ScreenTimeDaily, error)
	SumScreenTime(ctx context.Context, from, to string) (int64, error)

	// User profile
	GetProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p *models.UserProfile) error
}

// Compile-time verification that *Repository implements DataStore.
var _ DataStore = (*Repository)(nil)
