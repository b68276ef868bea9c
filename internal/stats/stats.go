// Package stats derives streaks and rates from a habit's completion
// log. Everything here is a pure function of its inputs: the current
// date is injected by the caller, never read from a wall clock, so
// results are deterministic and testable.
package stats

import (
	"fmt"
	"sort"

	"github.com/kbowers/daytally/internal/models"
)

// HabitWithStats is a habit together with its derived summary.
type HabitWithStats struct {
	Habit            *models.Habit
	TotalCompletions int
	TotalAchieved    int
	TotalGaveUp      int
	CurrentStreak    int
	LongestStreak    int
	CompletionRate   float64
	SuccessRate      float64
	CompletedToday   bool
}

// Compute derives the summary for a habit from its completion records.
// completions must already be restricted to [habit creation date,
// today]; today is the caller's current calendar date.
//
// The completion-rate denominator is whole elapsed days since creation
// for every habit; the everyday flag does not alter it, so habits on a
// multi-day period under-report their rate.
func Compute(habit *models.Habit, completions []*models.HabitCompletion, today string) (HabitWithStats, error) {
	s := HabitWithStats{Habit: habit}

	todayDay, err := epochDay(today)
	if err != nil {
		return s, fmt.Errorf("invalid today date: %w", err)
	}
	createdDay, err := epochDay(habit.CreatedDate)
	if err != nil {
		return s, fmt.Errorf("invalid habit creation date: %w", err)
	}

	achieved := make(map[int64]bool, len(completions))
	loggedToday := false
	todayAchieved := false
	for _, c := range completions {
		day, err := epochDay(c.Date)
		if err != nil {
			return s, fmt.Errorf("invalid completion date %q: %w", c.Date, err)
		}

		s.TotalCompletions++
		switch c.Kind {
		case models.CompletionGaveUp:
			s.TotalGaveUp++
		default:
			s.TotalAchieved++
			achieved[day] = true
		}

		if day == todayDay {
			loggedToday = true
			todayAchieved = c.Kind != models.CompletionGaveUp
		}
	}

	s.CompletedToday = loggedToday
	s.CurrentStreak = currentStreak(achieved, todayDay, loggedToday, todayAchieved)
	s.LongestStreak = longestStreak(achieved)

	// Expected completions: calendar days from creation through today
	// inclusive. Creation day alone counts as one.
	expected := todayDay - createdDay + 1
	if expected < 1 {
		expected = 1
	}
	if s.TotalCompletions > 0 {
		s.CompletionRate = float64(s.TotalCompletions) / float64(expected)
		if s.CompletionRate > 1.0 {
			s.CompletionRate = 1.0
		}
		s.SuccessRate = float64(s.TotalAchieved) / float64(s.TotalCompletions)
	}

	return s, nil
}

// currentStreak walks backward one day at a time through the achieved
// set. The anchor is today when today was achieved; a day not yet
// logged leaves the streak intact and anchors on yesterday; a day
// logged as given up resolves today as not-achieved and the streak is
// broken outright.
func currentStreak(achieved map[int64]bool, today int64, loggedToday, todayAchieved bool) int {
	anchor := today
	if !achieved[today] {
		if loggedToday && !todayAchieved {
			return 0
		}
		anchor = today - 1
	}

	streak := 0
	for day := anchor; achieved[day]; day-- {
		streak++
	}
	return streak
}

// longestStreak finds the longest run of consecutive achieved days by
// walking the dates most recent first. A gap resets the running count
// to 1, not 0: the day on the far side of the gap starts a new streak
// of its own.
func longestStreak(achieved map[int64]bool) int {
	if len(achieved) == 0 {
		return 0
	}

	days := make([]int64, 0, len(achieved))
	for day := range achieved {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	longest := 1
	running := 1
	for i := 1; i < len(days); i++ {
		if days[i-1] == days[i]+1 {
			running++
		} else {
			running = 1
		}
		if running > longest {
			longest = running
		}
	}
	return longest
}

// epochDay converts a stored calendar date to a day count, making
// consecutive-day checks integer arithmetic.
func epochDay(date string) (int64, error) {
	t, err := models.ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Unix() / 86400, nil
}
