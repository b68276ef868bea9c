package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeSession is a focus/work session attributed to a category.
// Deleting the category cascades to its sessions.
type TimeSession struct {
	ID         int
	CategoryID int
	Date       string // calendar date, DateLayout
	Duration   int64  // seconds
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expense is a single spend attributed to a category.
// Deleting the category cascades to its expenses.
type Expense struct {
	ID         int
	CategoryID int
	Date       string
	Amount     decimal.Decimal
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DailyTask is a one-off to-do for a given day.
type DailyTask struct {
	ID        int
	Title     string
	Date      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription is a recurring payment being tracked.
type Subscription struct {
	ID         int
	Name       string
	Amount     decimal.Decimal
	PeriodDays int    // billing period length
	NextDue    string // calendar date of the next charge
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DateCalculation is a saved between-dates calculation.
type DateCalculation struct {
	ID        int
	Label     string
	StartDate string
	EndDate   string
	Days      int
	CreatedAt time.Time
}

// BMIRecord is one point in the BMI history.
type BMIRecord struct {
	ID        int
	Date      string
	HeightCm  float64
	WeightKg  float64
	BMI       float64
	CreatedAt time.Time
}

// ScreenTimeHourly is screen-time telemetry for one hour of one day.
// (Date, Hour) is unique; re-reporting an hour overwrites it.
type ScreenTimeHourly struct {
	ID       int
	Date     string
	Hour     int // 0-23
	Duration int64
}

// ScreenTimeSession is one unlock-to-lock usage span. SessionStart is
// unique; duplicate reports of the same span are rejected.
type ScreenTimeSession struct {
	ID           int
	Date         string
	SessionStart time.Time
	Duration     int64
}

// ScreenTimeDaily is the per-day rollup, keyed by date alone.
type ScreenTimeDaily struct {
	Date        string
	Total       int64
	UnlockCount int
}

// UserProfile is the singleton preferences record (at most one row).
type UserProfile struct {
	DisplayName string
	WeekStart   time.Weekday
	UpdatedAt   time.Time
}
