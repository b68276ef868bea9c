// Package summary rolls daily activity up across domains: time
// sessions, expenses, tasks, subscriptions, screen time, and the
// one-off calculators (BMI, date spans).
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/models"
)

// Summary-related errors
var (
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidRange  = errors.New("range start is after its end")
	ErrInvalidHeight = errors.New("height must be positive")
	ErrInvalidWeight = errors.New("weight must be positive")
)

// DaySummary is everything that happened on one calendar day.
type DaySummary struct {
	Date            string
	SessionSeconds  int64
	ExpenseTotal    decimal.Decimal
	Tasks           models.TaskCounts
	ScreenSeconds   int64
	ScreenUnlocks   int
	CompletedHabits int
}

// RangeSummary aggregates a date range for reports.
type RangeSummary struct {
	From, To       string
	SessionsByDate []*models.DateDuration
	SessionsByCat  []*models.CategoryDuration
	ExpensesByDate []*models.DateAmount
	ExpensesByCat  []*models.CategoryAmount
	ExpenseTotal   decimal.Decimal
	ScreenSeconds  int64
}

// Service defines the cross-domain read operations plus the small
// calculator writes.
type Service interface {
	Day(ctx context.Context, date string) (*DaySummary, error)
	Range(ctx context.Context, from, to string) (*RangeSummary, error)
	MonthlySubscriptionCost(ctx context.Context) (decimal.Decimal, error)

	RecordBMI(ctx context.Context, date string, heightCm, weightKg float64) (*models.BMIRecord, error)
	DaysBetween(ctx context.Context, label, start, end string) (*models.DateCalculation, error)
}

type service struct {
	repo database.DataStore
}

// NewService creates a new summary service
func NewService(repo database.DataStore) Service {
	return &service{repo: repo}
}

// Day assembles one calendar day's rollup. Domains with no records
// contribute zero values.
func (s *service) Day(ctx context.Context, date string) (*DaySummary, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}

	out := &DaySummary{Date: date, ExpenseTotal: decimal.Zero}

	sessions, err := s.repo.SumDuration(ctx, 0, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sessions: %w", err)
	}
	out.SessionSeconds = sessions

	expenses, err := s.repo.SumExpenses(ctx, 0, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	out.ExpenseTotal = expenses

	tasks, err := s.repo.CountTasksByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	out.Tasks = tasks

	if daily, err := s.repo.GetDaily(ctx, date); err == nil {
		out.ScreenSeconds = daily.Total
		out.ScreenUnlocks = daily.UnlockCount
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get screen time: %w", err)
	}

	habits, err := s.repo.GetHabits(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	for _, h := range habits {
		c, err := s.repo.GetCompletion(ctx, h.ID, date)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get completion: %w", err)
		}
		if c.Kind == models.CompletionAchieved {
			out.CompletedHabits++
		}
	}

	return out, nil
}

// Range assembles the grouped rollups for [from, to] inclusive.
func (s *service) Range(ctx context.Context, from, to string) (*RangeSummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	out := &RangeSummary{From: from, To: to, ExpenseTotal: decimal.Zero}
	var err error

	if out.SessionsByDate, err = s.repo.SessionTotalsByDate(ctx, from, to); err != nil {
		return nil, fmt.Errorf("failed to group sessions by date: %w", err)
	}
	if out.SessionsByCat, err = s.repo.SessionTotalsByCategory(ctx, from, to); err != nil {
		return nil, fmt.Errorf("failed to group sessions by category: %w", err)
	}
	if out.ExpensesByDate, err = s.repo.ExpenseTotalsByDate(ctx, from, to); err != nil {
		return nil, fmt.Errorf("failed to group expenses by date: %w", err)
	}
	if out.ExpensesByCat, err = s.repo.ExpenseTotalsByCategory(ctx, from, to); err != nil {
		return nil, fmt.Errorf("failed to group expenses by category: %w", err)
	}
	if out.ExpenseTotal, err = s.repo.SumExpenses(ctx, 0, from, to); err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	if out.ScreenSeconds, err = s.repo.SumScreenTime(ctx, from, to); err != nil {
		return nil, fmt.Errorf("failed to sum screen time: %w", err)
	}

	return out, nil
}

// MonthlySubscriptionCost totals active subscriptions normalized to a
// 30-day month.
func (s *service) MonthlySubscriptionCost(ctx context.Context) (decimal.Decimal, error) {
	subs, err := s.repo.GetSubscriptions(ctx, true)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	total := decimal.Zero
	thirty := decimal.NewFromInt(30)
	for _, sub := range subs {
		period := sub.PeriodDays
		if period <= 0 {
			period = 30
		}
		perDay := sub.Amount.Div(decimal.NewFromInt(int64(period)))
		total = total.Add(perDay.Mul(thirty))
	}
	return total.Round(2), nil
}

// RecordBMI computes and persists a BMI reading. BMI = kg / (m^2),
// rounded to one decimal place.
func (s *service) RecordBMI(ctx context.Context, date string, heightCm, weightKg float64) (*models.BMIRecord, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}
	if heightCm <= 0 {
		return nil, ErrInvalidHeight
	}
	if weightKg <= 0 {
		return nil, ErrInvalidWeight
	}

	meters := heightCm / 100
	bmi := weightKg / (meters * meters)
	bmi = float64(int(bmi*10+0.5)) / 10

	rec, err := s.repo.CreateBMIRecord(ctx, &models.BMIRecord{
		Date:     date,
		HeightCm: heightCm,
		WeightKg: weightKg,
		BMI:      bmi,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record bmi: %w", err)
	}
	return rec, nil
}

// DaysBetween computes the whole-day span between two civil dates,
// end exclusive, and persists the calculation.
func (s *service) DaysBetween(ctx context.Context, label, start, end string) (*models.DateCalculation, error) {
	startT, err := models.ParseDate(start)
	if err != nil {
		return nil, ErrInvalidDate
	}
	endT, err := models.ParseDate(end)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if endT.Before(startT) {
		return nil, ErrInvalidRange
	}

	days := int(endT.Sub(startT).Hours() / 24)

	calc, err := s.repo.CreateDateCalculation(ctx, &models.DateCalculation{
		Label:     label,
		StartDate: start,
		EndDate:   end,
		Days:      days,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save date calculation: %w", err)
	}
	return calc, nil
}

func validateRange(from, to string) error {
	fromT, err := models.ParseDate(from)
	if err != nil {
		return ErrInvalidDate
	}
	toT, err := models.ParseDate(to)
	if err != nil {
		return ErrInvalidDate
	}
	if toT.Before(fromT) {
		return ErrInvalidRange
	}
	return nil
}
