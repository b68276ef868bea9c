package stats

import (
	"testing"
	"time"

	"github.com/kbowers/daytally/internal/models"
)

func testHabit(createdDate string) *models.Habit {
	return &models.Habit{
		ID:          1,
		Name:        "morning run",
		Type:        models.HabitBuild,
		PeriodDays:  1,
		Everyday:    true,
		Active:      true,
		CreatedDate: createdDate,
	}
}

func completion(habitID int, date string, kind models.CompletionKind) *models.HabitCompletion {
	return &models.HabitCompletion{HabitID: habitID, Date: date, Kind: kind}
}

// addDays shifts an ISO date by n calendar days.
func addDays(t *testing.T, date string, n int) string {
	t.Helper()
	d, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("Failed to parse date %q: %v", date, err)
	}
	return models.FormatDate(d.AddDate(0, 0, n))
}

func TestComputeEmptyCompletionSet(t *testing.T) {
	s, err := Compute(testHabit("2025-01-01"), nil, "2025-01-10")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.TotalCompletions != 0 || s.TotalAchieved != 0 || s.TotalGaveUp != 0 {
		t.Errorf("Expected zero counts, got %+v", s)
	}
	if s.CurrentStreak != 0 {
		t.Errorf("Expected currentStreak 0, got %d", s.CurrentStreak)
	}
	if s.LongestStreak != 0 {
		t.Errorf("Expected longestStreak 0, got %d", s.LongestStreak)
	}
	if s.CompletionRate != 0 {
		t.Errorf("Expected completionRate 0, got %f", s.CompletionRate)
	}
	if s.SuccessRate != 0 {
		t.Errorf("Expected successRate 0, got %f", s.SuccessRate)
	}
	if s.CompletedToday {
		t.Error("Expected completedToday false")
	}
}

// Three achieved days then a gave-up on the query day: the streak is
// broken outright, but the historical run of three survives as the
// longest streak.
func TestComputeRunEndedByGaveUp(t *testing.T) {
	d := "2025-03-01"
	habit := testHabit(d)
	completions := []*models.HabitCompletion{
		completion(1, d, models.CompletionAchieved),
		completion(1, addDays(t, d, 1), models.CompletionAchieved),
		completion(1, addDays(t, d, 2), models.CompletionAchieved),
		completion(1, addDays(t, d, 3), models.CompletionGaveUp),
	}

	s, err := Compute(habit, completions, addDays(t, d, 3))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.CurrentStreak != 0 {
		t.Errorf("Expected currentStreak 0, got %d", s.CurrentStreak)
	}
	if s.LongestStreak != 3 {
		t.Errorf("Expected longestStreak 3, got %d", s.LongestStreak)
	}
	if s.TotalAchieved != 3 {
		t.Errorf("Expected totalAchieved 3, got %d", s.TotalAchieved)
	}
	if s.TotalGaveUp != 1 {
		t.Errorf("Expected totalGaveUp 1, got %d", s.TotalGaveUp)
	}
	if s.CompletionRate != 1.0 {
		t.Errorf("Expected completionRate 1.0 (4/4), got %f", s.CompletionRate)
	}
	if s.SuccessRate != 0.75 {
		t.Errorf("Expected successRate 0.75, got %f", s.SuccessRate)
	}
	if !s.CompletedToday {
		t.Error("Expected completedToday true (gave-up still counts as logged)")
	}
}

// Nothing logged today, achieved yesterday and the day before: the
// anchor shifts to yesterday and the streak stays intact at 2.
func TestComputeAnchorShiftsWhenTodayUnlogged(t *testing.T) {
	today := "2025-06-15"
	habit := testHabit("2025-06-01")
	completions := []*models.HabitCompletion{
		completion(1, addDays(t, today, -2), models.CompletionAchieved),
		completion(1, addDays(t, today, -1), models.CompletionAchieved),
	}

	s, err := Compute(habit, completions, today)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.CurrentStreak != 2 {
		t.Errorf("Expected currentStreak 2, got %d", s.CurrentStreak)
	}
	if s.CompletedToday {
		t.Error("Expected completedToday false")
	}
}

func TestComputeCurrentStreak(t *testing.T) {
	today := "2025-06-15"
	tests := []struct {
		name        string
		completions []*models.HabitCompletion
		expected    int
	}{
		{
			name: "achieved today extends through yesterday",
			completions: []*models.HabitCompletion{
				completion(1, addDays(t, today, -1), models.CompletionAchieved),
				completion(1, today, models.CompletionAchieved),
			},
			expected: 2,
		},
		{
			name: "gap two days ago breaks the walk",
			completions: []*models.HabitCompletion{
				completion(1, addDays(t, today, -3), models.CompletionAchieved),
				completion(1, addDays(t, today, -1), models.CompletionAchieved),
				completion(1, today, models.CompletionAchieved),
			},
			expected: 2,
		},
		{
			name: "gave up yesterday with nothing today",
			completions: []*models.HabitCompletion{
				completion(1, addDays(t, today, -2), models.CompletionAchieved),
				completion(1, addDays(t, today, -1), models.CompletionGaveUp),
			},
			expected: 0,
		},
		{
			name: "only today achieved",
			completions: []*models.HabitCompletion{
				completion(1, today, models.CompletionAchieved),
			},
			expected: 1,
		},
		{
			name: "two day old run does not reach today",
			completions: []*models.HabitCompletion{
				completion(1, addDays(t, today, -4), models.CompletionAchieved),
				completion(1, addDays(t, today, -3), models.CompletionAchieved),
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(testHabit("2025-06-01"), tt.completions, today)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if s.CurrentStreak != tt.expected {
				t.Errorf("Expected currentStreak %d, got %d", tt.expected, s.CurrentStreak)
			}
		})
	}
}

func TestComputeLongestStreak(t *testing.T) {
	today := "2025-06-30"
	tests := []struct {
		name     string
		offsets  []int // days before today, achieved
		expected int
	}{
		{"single day", []int{0}, 1},
		{"unbroken run", []int{0, 1, 2, 3}, 4},
		{"older run is longer", []int{0, 5, 6, 7}, 3},
		{"two equal runs", []int{0, 1, 4, 5}, 2},
		{"all isolated days", []int{0, 2, 4, 6}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var completions []*models.HabitCompletion
			for _, off := range tt.offsets {
				completions = append(completions,
					completion(1, addDays(t, today, -off), models.CompletionAchieved))
			}

			s, err := Compute(testHabit("2025-06-01"), completions, today)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if s.LongestStreak != tt.expected {
				t.Errorf("Expected longestStreak %d, got %d", tt.expected, s.LongestStreak)
			}
		})
	}
}

// The longest streak can never be shorter than the current streak: the
// current streak is itself a run of achieved days.
func TestLongestStreakAtLeastCurrentStreak(t *testing.T) {
	today := "2025-06-30"
	patterns := [][]int{
		{0}, {0, 1}, {0, 1, 2}, {0, 2}, {0, 1, 5, 6, 7}, {1, 2}, {3, 4, 5},
	}

	for _, offsets := range patterns {
		var completions []*models.HabitCompletion
		for _, off := range offsets {
			completions = append(completions,
				completion(1, addDays(t, today, -off), models.CompletionAchieved))
		}

		s, err := Compute(testHabit("2025-01-01"), completions, today)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		if s.LongestStreak < s.CurrentStreak {
			t.Errorf("Offsets %v: longestStreak %d < currentStreak %d",
				offsets, s.LongestStreak, s.CurrentStreak)
		}
	}
}

func TestComputeCompletionRate(t *testing.T) {
	tests := []struct {
		name     string
		created  string
		today    string
		logged   int // achieved days counted back from today
		expected float64
	}{
		{"half the days", "2025-06-01", "2025-06-10", 5, 0.5},
		{"every day", "2025-06-01", "2025-06-05", 5, 1.0},
		{"created today", "2025-06-10", "2025-06-10", 1, 1.0},
		{"nothing logged", "2025-06-01", "2025-06-10", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var completions []*models.HabitCompletion
			for i := 0; i < tt.logged; i++ {
				completions = append(completions,
					completion(1, addDays(t, tt.today, -i), models.CompletionAchieved))
			}

			s, err := Compute(testHabit(tt.created), completions, tt.today)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if s.CompletionRate != tt.expected {
				t.Errorf("Expected completionRate %f, got %f", tt.expected, s.CompletionRate)
			}
		})
	}
}

// The rate is capped at 1.0 even if more records exist than elapsed
// days (possible after a creation-date edit).
func TestComputeCompletionRateCapped(t *testing.T) {
	today := "2025-06-03"
	habit := testHabit("2025-06-02") // 2 elapsed days
	var completions []*models.HabitCompletion
	for i := 0; i < 4; i++ {
		completions = append(completions,
			completion(1, addDays(t, today, -i), models.CompletionAchieved))
	}

	s, err := Compute(habit, completions, today)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if s.CompletionRate != 1.0 {
		t.Errorf("Expected capped completionRate 1.0, got %f", s.CompletionRate)
	}
}

func TestComputeRejectsBadDates(t *testing.T) {
	if _, err := Compute(testHabit("2025-01-01"), nil, "not-a-date"); err == nil {
		t.Error("Expected error for malformed today")
	}
	if _, err := Compute(testHabit("01/01/2025"), nil, "2025-01-02"); err == nil {
		t.Error("Expected error for malformed creation date")
	}

	bad := []*models.HabitCompletion{completion(1, "yesterday", models.CompletionAchieved)}
	if _, err := Compute(testHabit("2025-01-01"), bad, "2025-01-02"); err == nil {
		t.Error("Expected error for malformed completion date")
	}
}

// Determinism: the injected date is the only clock. Computing the same
// inputs twice a day apart in real time must give identical results.
func TestComputeIsDeterministic(t *testing.T) {
	habit := testHabit("2025-06-01")
	completions := []*models.HabitCompletion{
		completion(1, "2025-06-01", models.CompletionAchieved),
		completion(1, "2025-06-02", models.CompletionGaveUp),
	}

	first, err := Compute(habit, completions, "2025-06-03")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := Compute(habit, completions, "2025-06-03")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if first != second {
		t.Errorf("Results differ across calls: %+v vs %+v", first, second)
	}
}
