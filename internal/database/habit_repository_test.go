package database

import (
	"context"
	"errors"
	"testing"

	"github.com/kbowers/daytally/internal/models"
)

func TestCreateAndGetHabit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	h, err := repo.CreateHabit(ctx, &models.Habit{
		Name:        "Run",
		Type:        models.HabitBuild,
		PeriodDays:  2,
		Everyday:    false,
		Reminder:    &models.ReminderTime{Hour: 7, Minute: 30},
		Active:      true,
		CreatedDate: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if h.ID == 0 {
		t.Error("CreateHabit did not assign an id")
	}

	got, err := repo.GetHabitByID(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabitByID failed: %v", err)
	}
	if got.Name != "Run" || got.PeriodDays != 2 || got.Everyday {
		t.Errorf("Round-tripped habit = %+v", got)
	}
	if got.Reminder == nil || got.Reminder.Hour != 7 || got.Reminder.Minute != 30 {
		t.Errorf("Reminder = %+v, want 07:30", got.Reminder)
	}
}

func TestGetHabitByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetHabitByID(context.Background(), 999)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetHabitByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestLogCompletionReplacesSameDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	h := mustHabit(t, repo, "Meditate")

	first := &models.HabitCompletion{
		HabitID: h.ID,
		Date:    "2026-08-30",
		Kind:    models.CompletionAchieved,
		Note:    "morning",
	}
	if err := repo.LogCompletion(ctx, first); err != nil {
		t.Fatalf("First LogCompletion failed: %v", err)
	}

	// Logging again for the same day overwrites rather than duplicating.
	second := &models.HabitCompletion{
		HabitID: h.ID,
		Date:    "2026-08-30",
		Kind:    models.CompletionGaveUp,
		Note:    "relapsed",
	}
	if err := repo.LogCompletion(ctx, second); err != nil {
		t.Fatalf("Second LogCompletion failed: %v", err)
	}

	got, err := repo.GetCompletion(ctx, h.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("GetCompletion failed: %v", err)
	}
	if got.Kind != models.CompletionGaveUp || got.Note != "relapsed" {
		t.Errorf("Completion after relog = %+v, want gave_up/relapsed", got)
	}

	count, err := repo.CountCompletions(ctx, h.ID, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("CountCompletions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Completion count = %d, want 1", count)
	}
}

func TestGetCompletionsRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	h := mustHabit(t, repo, "Read")

	dates := []string{"2026-08-10", "2026-08-11", "2026-08-20"}
	for _, d := range dates {
		err := repo.LogCompletion(ctx, &models.HabitCompletion{
			HabitID: h.ID, Date: d, Kind: models.CompletionAchieved,
		})
		if err != nil {
			t.Fatalf("LogCompletion(%s) failed: %v", d, err)
		}
	}

	got, err := repo.GetCompletions(ctx, h.ID, "2026-08-10", "2026-08-15")
	if err != nil {
		t.Fatalf("GetCompletions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Completions in range = %d, want 2", len(got))
	}
	if got[0].Date != "2026-08-10" || got[1].Date != "2026-08-11" {
		t.Errorf("Completions out of order: %s, %s", got[0].Date, got[1].Date)
	}
}

func TestDeleteCompletion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	h := mustHabit(t, repo, "Stretch")

	err := repo.LogCompletion(ctx, &models.HabitCompletion{
		HabitID: h.ID, Date: "2026-08-30", Kind: models.CompletionAchieved,
	})
	if err != nil {
		t.Fatalf("LogCompletion failed: %v", err)
	}

	if err := repo.DeleteCompletion(ctx, h.ID, "2026-08-30"); err != nil {
		t.Fatalf("DeleteCompletion failed: %v", err)
	}
	_, err = repo.GetCompletion(ctx, h.ID, "2026-08-30")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetCompletion after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.DeleteCompletion(ctx, h.ID, "2026-08-30"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Second DeleteCompletion error = %v, want ErrNotFound", err)
	}
}

func TestArchiveHabitKeepsHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	h := mustHabit(t, repo, "Journal")

	err := repo.LogCompletion(ctx, &models.HabitCompletion{
		HabitID: h.ID, Date: "2026-08-30", Kind: models.CompletionAchieved,
	})
	if err != nil {
		t.Fatalf("LogCompletion failed: %v", err)
	}

	if err := repo.ArchiveHabit(ctx, h.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	// Archived habits vanish from the active listing but stay
	// addressable, completions included.
	active, err := repo.GetHabits(ctx, true)
	if err != nil {
		t.Fatalf("GetHabits failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Active habits after archive = %d, want 0", len(active))
	}

	all, err := repo.GetHabits(ctx, false)
	if err != nil {
		t.Fatalf("GetHabits(all) failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("All habits after archive = %d, want 1", len(all))
	}

	got, err := repo.GetHabitByID(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabitByID after archive failed: %v", err)
	}
	if got.Active {
		t.Error("Habit still active after archive")
	}

	count, err := repo.CountCompletions(ctx, h.ID, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("CountCompletions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Completions after archive = %d, want 1", count)
	}
}

func TestUpdateHabitNotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpdateHabit(context.Background(), &models.Habit{
		ID:   404,
		Name: "Ghost",
		Type: models.HabitBuild,
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateHabit error = %v, want ErrNotFound", err)
	}
}
