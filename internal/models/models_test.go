package models

import "testing"

func TestParseCompletionKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected CompletionKind
		known    bool
	}{
		{"achieved", "achieved", CompletionAchieved, true},
		{"gave up", "gave_up", CompletionGaveUp, true},
		{"unknown falls back", "skipped", DefaultCompletionKind, false},
		{"empty falls back", "", DefaultCompletionKind, false},
		{"case sensitive", "Achieved", DefaultCompletionKind, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ParseCompletionKind(tt.input)
			if kind != tt.expected {
				t.Errorf("Expected kind %q, got %q", tt.expected, kind)
			}
			if ok != tt.known {
				t.Errorf("Expected known=%v, got %v", tt.known, ok)
			}
		})
	}
}

func TestParseHabitType(t *testing.T) {
	tests := []struct {
		input    string
		expected HabitType
		known    bool
	}{
		{"build", HabitBuild, true},
		{"quit", HabitQuit, true},
		{"destroy", DefaultHabitType, false},
	}

	for _, tt := range tests {
		got, ok := ParseHabitType(tt.input)
		if got != tt.expected || ok != tt.known {
			t.Errorf("ParseHabitType(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.known)
		}
	}
}

func TestParseCategoryKind(t *testing.T) {
	tests := []struct {
		input    string
		expected CategoryKind
		known    bool
	}{
		{"habit", CategoryHabit, true},
		{"activity", CategoryActivity, true},
		{"expense", CategoryExpense, true},
		{"budget", DefaultCategoryKind, false},
	}

	for _, tt := range tests {
		got, ok := ParseCategoryKind(tt.input)
		if got != tt.expected || ok != tt.known {
			t.Errorf("ParseCategoryKind(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.known)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("Failed to parse date: %v", err)
	}
	if got := FormatDate(d); got != "2025-03-10" {
		t.Errorf("Expected 2025-03-10, got %s", got)
	}

	if _, err := ParseDate("03/10/2025"); err == nil {
		t.Error("Expected error for non-ISO date")
	}
}
