package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/models"
	"github.com/kbowers/daytally/internal/testutil"
)

func newTestService(t *testing.T) (Service, *database.Repository) {
	t.Helper()
	repo, _ := testutil.SetupTestRepository(t)
	return NewService(repo), repo
}

func TestDaySummary(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	cat := testutil.CreateTestCategory(t, repo, "Study", models.CategoryActivity)
	spend := testutil.CreateTestCategory(t, repo, "Food", models.CategoryExpense)
	testutil.CreateTestSession(t, repo, cat, "2026-08-30", 3600)
	testutil.CreateTestSession(t, repo, cat, "2026-08-29", 999) // other day, excluded
	testutil.CreateTestExpense(t, repo, spend, "2026-08-30", "12.50")
	testutil.CreateTestExpense(t, repo, spend, "2026-08-30", "7.25")

	done := testutil.CreateTestTask(t, repo, "laundry", "2026-08-30")
	testutil.CreateTestTask(t, repo, "dishes", "2026-08-30")
	if err := repo.SetTaskDone(ctx, done, true); err != nil {
		t.Fatalf("SetTaskDone failed: %v", err)
	}

	habit := testutil.CreateTestHabit(t, repo, "Meditate", models.HabitBuild)
	quit := testutil.CreateTestHabit(t, repo, "No sugar", models.HabitQuit)
	testutil.LogTestCompletion(t, repo, habit, "2026-08-30", models.CompletionAchieved)
	testutil.LogTestCompletion(t, repo, quit, "2026-08-30", models.CompletionGaveUp)

	if err := repo.UpsertDaily(ctx, &models.ScreenTimeDaily{
		Date: "2026-08-30", Total: 5400, UnlockCount: 33,
	}); err != nil {
		t.Fatalf("UpsertDaily failed: %v", err)
	}

	day, err := svc.Day(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}

	if day.SessionSeconds != 3600 {
		t.Errorf("SessionSeconds = %d, want 3600", day.SessionSeconds)
	}
	if day.ExpenseTotal.String() != "19.75" {
		t.Errorf("ExpenseTotal = %s, want 19.75", day.ExpenseTotal)
	}
	if day.Tasks.Total != 2 || day.Tasks.Done != 1 {
		t.Errorf("Tasks = %+v, want total 2 done 1", day.Tasks)
	}
	if day.ScreenSeconds != 5400 || day.ScreenUnlocks != 33 {
		t.Errorf("Screen = %d/%d, want 5400/33", day.ScreenSeconds, day.ScreenUnlocks)
	}
	// Only achieved completions count; the gave-up one does not.
	if day.CompletedHabits != 1 {
		t.Errorf("CompletedHabits = %d, want 1", day.CompletedHabits)
	}
}

func TestDaySummaryEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	day, err := svc.Day(context.Background(), "2026-08-30")
	if err != nil {
		t.Fatalf("Day on empty store failed: %v", err)
	}
	if day.SessionSeconds != 0 || !day.ExpenseTotal.IsZero() || day.Tasks.Total != 0 {
		t.Errorf("Empty-store day = %+v, want all zeros", day)
	}
}

func TestDayRejectsMalformedDate(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Day(context.Background(), "yesterday"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Day(yesterday) error = %v, want ErrInvalidDate", err)
	}
}

func TestRangeSummary(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	cat := testutil.CreateTestCategory(t, repo, "Guitar", models.CategoryActivity)
	spend := testutil.CreateTestCategory(t, repo, "Transport", models.CategoryExpense)
	testutil.CreateTestSession(t, repo, cat, "2026-08-28", 1200)
	testutil.CreateTestSession(t, repo, cat, "2026-08-29", 1800)
	testutil.CreateTestExpense(t, repo, spend, "2026-08-28", "2.80")
	testutil.CreateTestExpense(t, repo, spend, "2026-08-29", "2.80")

	if err := repo.UpsertDaily(ctx, &models.ScreenTimeDaily{Date: "2026-08-28", Total: 3000}); err != nil {
		t.Fatalf("UpsertDaily failed: %v", err)
	}

	r, err := svc.Range(ctx, "2026-08-28", "2026-08-29")
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(r.SessionsByDate) != 2 {
		t.Errorf("SessionsByDate buckets = %d, want 2", len(r.SessionsByDate))
	}
	if len(r.SessionsByCat) != 1 || r.SessionsByCat[0].Total != 3000 {
		t.Errorf("SessionsByCat = %+v, want one bucket of 3000", r.SessionsByCat)
	}
	if r.ExpenseTotal.String() != "5.6" {
		t.Errorf("ExpenseTotal = %s, want 5.6", r.ExpenseTotal)
	}
	if r.ScreenSeconds != 3000 {
		t.Errorf("ScreenSeconds = %d, want 3000", r.ScreenSeconds)
	}
}

func TestRangeRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Range(context.Background(), "2026-08-30", "2026-08-01")
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Inverted range error = %v, want ErrInvalidRange", err)
	}
}

func TestMonthlySubscriptionCost(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	subs := []models.Subscription{
		// 30-day period contributes its face value.
		{Name: "Streaming", Amount: mustDec(t, "15.00"), PeriodDays: 30, NextDue: "2026-09-01", Active: true},
		// Annual 120.00 normalizes to 10.00 per 30 days.
		{Name: "Domain", Amount: mustDec(t, "120.00"), PeriodDays: 360, NextDue: "2027-01-01", Active: true},
		{Name: "Old", Amount: mustDec(t, "99.00"), PeriodDays: 30, NextDue: "2026-09-01", Active: false},
	}
	for i := range subs {
		if _, err := repo.CreateSubscription(ctx, &subs[i]); err != nil {
			t.Fatalf("CreateSubscription failed: %v", err)
		}
	}

	total, err := svc.MonthlySubscriptionCost(ctx)
	if err != nil {
		t.Fatalf("MonthlySubscriptionCost failed: %v", err)
	}
	if total.String() != "25" {
		t.Errorf("Monthly cost = %s, want 25", total)
	}
}

func TestRecordBMI(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.RecordBMI(ctx, "2026-08-30", 180, 80)
	if err != nil {
		t.Fatalf("RecordBMI failed: %v", err)
	}
	// 80 / 1.8^2 = 24.69... rounds to 24.7.
	if rec.BMI != 24.7 {
		t.Errorf("BMI = %v, want 24.7", rec.BMI)
	}

	if _, err := svc.RecordBMI(ctx, "2026-08-30", 0, 80); !errors.Is(err, ErrInvalidHeight) {
		t.Errorf("Zero height error = %v, want ErrInvalidHeight", err)
	}
	if _, err := svc.RecordBMI(ctx, "2026-08-30", 180, -1); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("Negative weight error = %v, want ErrInvalidWeight", err)
	}
}

func TestDaysBetween(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	calc, err := svc.DaysBetween(ctx, "vacation", "2026-08-30", "2026-09-14")
	if err != nil {
		t.Fatalf("DaysBetween failed: %v", err)
	}
	if calc.Days != 15 {
		t.Errorf("Days = %d, want 15", calc.Days)
	}

	same, err := svc.DaysBetween(ctx, "", "2026-08-30", "2026-08-30")
	if err != nil {
		t.Fatalf("DaysBetween same-day failed: %v", err)
	}
	if same.Days != 0 {
		t.Errorf("Same-day span = %d, want 0", same.Days)
	}

	if _, err := svc.DaysBetween(ctx, "", "2026-09-01", "2026-08-01"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Inverted span error = %v, want ErrInvalidRange", err)
	}
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Bad decimal %q: %v", s, err)
	}
	return d
}
