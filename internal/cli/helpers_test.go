package cli

import (
	"fmt"
	"testing"

	"github.com/kbowers/daytally/internal/backup"
	"github.com/kbowers/daytally/internal/models"
	habitservice "github.com/kbowers/daytally/internal/services/habit"
	summaryservice "github.com/kbowers/daytally/internal/services/summary"
)

func TestExitFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.ErrNotFound, ExitNotFound},
		{"wrapped not found", fmt.Errorf("habit 3: %w", models.ErrNotFound), ExitNotFound},
		{"constraint", models.ErrConstraint, ExitDataErr},
		{"unsupported version", backup.ErrUnsupportedVersion, ExitDataErr},
		{"anything else", fmt.Errorf("disk on fire"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitFor(tt.err); got != tt.want {
				t.Errorf("exitFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitForValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty name", habitservice.ErrEmptyName, ExitValidation},
		{"future date", habitservice.ErrDateInFuture, ExitValidation},
		{"wrapped invalid range", fmt.Errorf("range: %w", summaryservice.ErrInvalidRange), ExitValidation},
		{"not found still maps", models.ErrNotFound, ExitNotFound},
		{"generic stays generic", fmt.Errorf("boom"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitForValidation(tt.err); got != tt.want {
				t.Errorf("exitForValidation(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{3540, "59m"},
		{3600, "1h00m"},
		{5400, "1h30m"},
		{36000, "10h00m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestHabitJSONIncludesReminder(t *testing.T) {
	h := &models.Habit{
		ID:       1,
		Name:     "Stretch",
		Type:     models.HabitBuild,
		Reminder: &models.ReminderTime{Hour: 7, Minute: 5},
	}

	out := habitJSON(h)
	if out["reminder"] != "07:05" {
		t.Errorf("Expected zero-padded reminder '07:05', got %v", out["reminder"])
	}

	h.Reminder = nil
	out = habitJSON(h)
	if _, present := out["reminder"]; present {
		t.Error("Expected no reminder key when habit has none")
	}
}
