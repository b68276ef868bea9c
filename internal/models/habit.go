package models

import "time"

// HabitType says whether the goal is to build a behavior or quit one.
type HabitType string

const (
	HabitBuild HabitType = "build"
	HabitQuit  HabitType = "quit"
)

// DefaultHabitType is applied when a stored type is not recognized.
const DefaultHabitType = HabitBuild

// ParseHabitType decodes a stored habit type. Unrecognized values fall
// back to DefaultHabitType; the second return value reports whether the
// input was recognized.
func ParseHabitType(s string) (HabitType, bool) {
	switch HabitType(s) {
	case HabitBuild, HabitQuit:
		return HabitType(s), true
	default:
		return DefaultHabitType, false
	}
}

// CompletionKind is the outcome logged for a habit on a given day.
type CompletionKind string

const (
	CompletionAchieved CompletionKind = "achieved"
	CompletionGaveUp   CompletionKind = "gave_up"
)

// DefaultCompletionKind is applied when a stored kind is not recognized.
const DefaultCompletionKind = CompletionAchieved

// ParseCompletionKind decodes a stored completion kind. Unrecognized
// values fall back to DefaultCompletionKind; the second return value
// reports whether the input was recognized.
func ParseCompletionKind(s string) (CompletionKind, bool) {
	switch CompletionKind(s) {
	case CompletionAchieved, CompletionGaveUp:
		return CompletionKind(s), true
	default:
		return DefaultCompletionKind, false
	}
}

// ReminderTime is an optional daily reminder clock time.
type ReminderTime struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// Habit is a tracked behavior. CreatedDate has calendar-day granularity
// because streak math counts whole days, not timestamps.
type Habit struct {
	ID           int
	Name         string
	Type         HabitType
	PeriodDays   int  // target period length in days
	Everyday     bool // true when scheduled every day
	Reminder     *ReminderTime
	Active       bool
	CreatedDate  string // calendar date, DateLayout
	CreatedAt    time.Time
}

// HabitCompletion is a single day-level log entry. At most one row
// exists per (HabitID, Date); re-logging a day overwrites it.
type HabitCompletion struct {
	HabitID    int
	Date       string // calendar date, DateLayout, independent of timezone
	Kind       CompletionKind
	Note       string
	RecordedAt time.Time
}
