// Package backup serializes the full cross-domain store state to a
// versioned interchange format and restores it. Records travel flat
// with explicit scalar fields; ids are preserved verbatim so
// relationships in the blob stay valid after restore.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Version is the current snapshot format version. Restore accepts any
// version from 1 through Version; fields introduced after a blob's
// version decode to their zero values.
const Version = 2

// ErrUnsupportedVersion is returned for blobs newer than this build or
// with a nonsensical version.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Snapshot is the top-level interchange structure.
type Snapshot struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Profile          *ProfileRecord        `json:"profile,omitempty"`
	Categories       []CategoryRecord      `json:"categories"`
	Habits           []HabitRecord         `json:"habits"`
	Completions      []CompletionRecord    `json:"completions"`
	Sessions         []SessionRecord       `json:"sessions"`
	Expenses         []ExpenseRecord       `json:"expenses"`
	Tasks            []TaskRecord          `json:"tasks"`
	Subscriptions    []SubscriptionRecord  `json:"subscriptions"`
	DateCalculations []DateCalcRecord      `json:"date_calculations"`
	BMIRecords       []BMIRow              `json:"bmi_records"`
	ScreenHourly     []ScreenHourlyRecord  `json:"screen_time_hourly"` // added in version 2
	ScreenSessions   []ScreenSessionRecord `json:"screen_time_sessions"`
	ScreenDaily      []ScreenDailyRecord   `json:"screen_time_daily"`
}

type ProfileRecord struct {
	DisplayName string `json:"display_name"`
	WeekStart   int    `json:"week_start"`
}

type CategoryRecord struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	DailyGoal *int      `json:"daily_goal,omitempty"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type HabitRecord struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	PeriodDays     int       `json:"period_days"`
	Everyday       bool      `json:"everyday"`
	ReminderHour   *int      `json:"reminder_hour,omitempty"`
	ReminderMinute *int      `json:"reminder_minute,omitempty"`
	Active         bool      `json:"active"`
	CreatedDate    string    `json:"created_date"`
	CreatedAt      time.Time `json:"created_at"`
}

type CompletionRecord struct {
	HabitID    int       `json:"habit_id"`
	Date       string    `json:"date"`
	Kind       string    `json:"kind"`
	Note       string    `json:"note"`
	RecordedAt time.Time `json:"recorded_at"`
}

type SessionRecord struct {
	ID         int    `json:"id"`
	CategoryID int    `json:"category_id"`
	Date       string `json:"date"`
	Duration   int64  `json:"duration"` // seconds
	Note       string `json:"note"`
}

type ExpenseRecord struct {
	ID         int    `json:"id"`
	CategoryID int    `json:"category_id"`
	Date       string `json:"date"`
	Amount     string `json:"amount"` // exact decimal string
	Note       string `json:"note"`
}

type TaskRecord struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Done  bool   `json:"done"`
}

type SubscriptionRecord struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	PeriodDays int    `json:"period_days"`
	NextDue    string `json:"next_due"`
	Active     bool   `json:"active"`
}

type DateCalcRecord struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

type BMIRow struct {
	ID       int     `json:"id"`
	Date     string  `json:"date"`
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	BMI      float64 `json:"bmi"`
}

type ScreenHourlyRecord struct {
	ID       int    `json:"id"`
	Date     string `json:"date"`
	Hour     int    `json:"hour"`
	Duration int64  `json:"duration"`
}

type ScreenSessionRecord struct {
	ID           int       `json:"id"`
	Date         string    `json:"date"`
	SessionStart time.Time `json:"session_start"`
	Duration     int64     `json:"duration"`
}

type ScreenDailyRecord struct {
	Date        string `json:"date"`
	Total       int64  `json:"total"`
	UnlockCount int    `json:"unlock_count"` // added in version 2, defaults to 0
}

// Encode writes the snapshot as indented JSON.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads and validates a snapshot. It fails before any store
// mutation: a malformed or unsupported blob never reaches Restore.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("malformed backup: %w", err)
	}
	if s.Version < 1 || s.Version > Version {
		return nil, fmt.Errorf("%w: %d (this build reads 1 through %d)",
			ErrUnsupportedVersion, s.Version, Version)
	}
	return &s, nil
}
