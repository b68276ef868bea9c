package reminder

import (
	"context"
	"sync"
	"testing"

	"github.com/kbowers/daytally/internal/models"
	"github.com/kbowers/daytally/internal/testutil"
)

type recordingNotifier struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingNotifier) Notify(h *models.Habit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, h.Name)
}

func TestSchedulerRegistersOnlyRemindedHabits(t *testing.T) {
	repo, _ := testutil.SetupTestRepository(t)
	ctx := context.Background()

	// One habit with a reminder, one without.
	withReminder, err := repo.CreateHabit(ctx, &models.Habit{
		Name:        "Meditate",
		Type:        models.HabitBuild,
		PeriodDays:  1,
		Everyday:    true,
		Reminder:    &models.ReminderTime{Hour: 7, Minute: 30},
		Active:      true,
		CreatedDate: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	testutil.CreateTestHabit(t, repo, "No reminder", models.HabitBuild)

	s := NewScheduler(repo, &recordingNotifier{})
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	s.mu.Lock()
	entries := len(s.entries)
	_, registered := s.entries[withReminder.ID]
	s.mu.Unlock()

	if entries != 1 {
		t.Errorf("Registered entries = %d, want 1", entries)
	}
	if !registered {
		t.Error("Habit with reminder was not registered")
	}
}

func TestSchedulerRefreshDropsArchivedHabits(t *testing.T) {
	repo, _ := testutil.SetupTestRepository(t)
	ctx := context.Background()

	h, err := repo.CreateHabit(ctx, &models.Habit{
		Name:        "Run",
		Type:        models.HabitBuild,
		PeriodDays:  1,
		Everyday:    true,
		Reminder:    &models.ReminderTime{Hour: 6, Minute: 0},
		Active:      true,
		CreatedDate: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	s := NewScheduler(repo, &recordingNotifier{})
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if err := repo.ArchiveHabit(ctx, h.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}
	s.Refresh(ctx)

	s.mu.Lock()
	entries := len(s.entries)
	s.mu.Unlock()
	if entries != 0 {
		t.Errorf("Entries after archive+refresh = %d, want 0", entries)
	}
}

func TestNotifierFunc(t *testing.T) {
	var got string
	n := NotifierFunc(func(h *models.Habit) { got = h.Name })
	n.Notify(&models.Habit{Name: "Stretch"})
	if got != "Stretch" {
		t.Errorf("NotifierFunc delivered %q, want Stretch", got)
	}
}
