package habit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbowers/daytally/internal/models"
	"github.com/kbowers/daytally/internal/testutil"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	repo, _ := testutil.SetupTestRepository(t)
	return NewService(repo)
}

func TestCreateHabitValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateHabitRequest
		wantErr error
	}{
		{
			name:    "empty name",
			req:     CreateHabitRequest{Name: "", Today: "2026-08-30"},
			wantErr: ErrEmptyName,
		},
		{
			name: "name too long",
			req: CreateHabitRequest{
				Name:  strings.Repeat("x", 101),
				Today: "2026-08-30",
			},
			wantErr: ErrNameTooLong,
		},
		{
			name:    "negative period",
			req:     CreateHabitRequest{Name: "Run", PeriodDays: -1, Today: "2026-08-30"},
			wantErr: ErrInvalidPeriod,
		},
		{
			name: "reminder hour out of range",
			req: CreateHabitRequest{
				Name:     "Run",
				Reminder: &models.ReminderTime{Hour: 24, Minute: 0},
				Today:    "2026-08-30",
			},
			wantErr: ErrInvalidReminder,
		},
		{
			name:    "malformed today",
			req:     CreateHabitRequest{Name: "Run", Today: "08/30/2026"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateHabit(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateHabit error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateHabitDefaultsToEveryday(t *testing.T) {
	svc := newTestService(t)

	h, err := svc.CreateHabit(context.Background(), CreateHabitRequest{
		Name:  "Meditate",
		Type:  models.HabitBuild,
		Today: "2026-08-30",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if !h.Everyday || h.PeriodDays != 1 {
		t.Errorf("Habit = everyday %v period %d, want everyday/1", h.Everyday, h.PeriodDays)
	}
	if !h.Active {
		t.Error("New habit should be active")
	}
	if h.CreatedDate != "2026-08-30" {
		t.Errorf("CreatedDate = %s, want 2026-08-30", h.CreatedDate)
	}
}

func TestLogCompletionBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h, err := svc.CreateHabit(ctx, CreateHabitRequest{
		Name: "Read", Type: models.HabitBuild, Today: "2026-08-10",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{"before creation", "2026-08-05", ErrDateBeforeCreated},
		{"in the future", "2026-09-10", ErrDateInFuture},
		{"malformed", "soon", ErrInvalidDate},
		{"creation day itself", "2026-08-10", nil},
		{"today", "2026-08-30", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.LogCompletion(ctx, LogCompletionRequest{
				HabitID: h.ID,
				Date:    tt.date,
				Kind:    models.CompletionAchieved,
				Today:   "2026-08-30",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LogCompletion(%s) error = %v, want %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestGetHabitWithStatsStreaks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h, err := svc.CreateHabit(ctx, CreateHabitRequest{
		Name: "Meditate", Type: models.HabitBuild, Today: "2026-08-20",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	// Three achieved days ending yesterday; nothing logged today.
	for _, date := range []string{"2026-08-27", "2026-08-28", "2026-08-29"} {
		err := svc.LogCompletion(ctx, LogCompletionRequest{
			HabitID: h.ID, Date: date, Kind: models.CompletionAchieved, Today: "2026-08-30",
		})
		if err != nil {
			t.Fatalf("LogCompletion(%s) failed: %v", date, err)
		}
	}

	hs, err := svc.GetHabitWithStats(ctx, h.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("GetHabitWithStats failed: %v", err)
	}
	if hs.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (unlogged today anchors to yesterday)", hs.CurrentStreak)
	}
	if hs.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", hs.LongestStreak)
	}
	if hs.CompletedToday {
		t.Error("CompletedToday should be false")
	}

	// Giving up today breaks the streak immediately.
	err = svc.LogCompletion(ctx, LogCompletionRequest{
		HabitID: h.ID, Date: "2026-08-30", Kind: models.CompletionGaveUp, Today: "2026-08-30",
	})
	if err != nil {
		t.Fatalf("LogCompletion(gave up) failed: %v", err)
	}

	hs, err = svc.GetHabitWithStats(ctx, h.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("GetHabitWithStats failed: %v", err)
	}
	if hs.CurrentStreak != 0 {
		t.Errorf("CurrentStreak after giving up today = %d, want 0", hs.CurrentStreak)
	}
	if hs.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", hs.LongestStreak)
	}
	if hs.TotalGaveUp != 1 {
		t.Errorf("TotalGaveUp = %d, want 1", hs.TotalGaveUp)
	}
}

func TestGetAllWithStatsSkipsArchivedWhenAsked(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	kept, err := svc.CreateHabit(ctx, CreateHabitRequest{
		Name: "Kept", Type: models.HabitBuild, Today: "2026-08-30",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	gone, err := svc.CreateHabit(ctx, CreateHabitRequest{
		Name: "Gone", Type: models.HabitQuit, Today: "2026-08-30",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	if err := svc.ArchiveHabit(ctx, gone.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	active, err := svc.GetAllWithStats(ctx, "2026-08-30", true)
	if err != nil {
		t.Fatalf("GetAllWithStats failed: %v", err)
	}
	if len(active) != 1 || active[0].Habit.ID != kept.ID {
		t.Errorf("Active stats = %d entries, want only habit %d", len(active), kept.ID)
	}

	all, err := svc.GetAllWithStats(ctx, "2026-08-30", false)
	if err != nil {
		t.Fatalf("GetAllWithStats(all) failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("All stats = %d entries, want 2", len(all))
	}
}

func TestUpdateHabitPartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h, err := svc.CreateHabit(ctx, CreateHabitRequest{
		Name:     "Run",
		Type:     models.HabitBuild,
		Reminder: &models.ReminderTime{Hour: 7, Minute: 0},
		Today:    "2026-08-30",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	newName := "Morning Run"
	period := 3
	err = svc.UpdateHabit(ctx, UpdateHabitRequest{
		HabitID:    h.ID,
		Name:       &newName,
		PeriodDays: &period,
	})
	if err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	got, err := svc.GetHabitWithStats(ctx, h.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("GetHabitWithStats failed: %v", err)
	}
	if got.Habit.Name != "Morning Run" || got.Habit.PeriodDays != 3 || got.Habit.Everyday {
		t.Errorf("Updated habit = %+v", got.Habit)
	}
	// The untouched reminder survives a partial update.
	if got.Habit.Reminder == nil || got.Habit.Reminder.Hour != 7 {
		t.Errorf("Reminder after partial update = %+v, want 07:00", got.Habit.Reminder)
	}

	err = svc.UpdateHabit(ctx, UpdateHabitRequest{HabitID: h.ID, ClearReminder: true})
	if err != nil {
		t.Fatalf("UpdateHabit(clear reminder) failed: %v", err)
	}
	got, err = svc.GetHabitWithStats(ctx, h.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("GetHabitWithStats failed: %v", err)
	}
	if got.Habit.Reminder != nil {
		t.Errorf("Reminder after clear = %+v, want nil", got.Habit.Reminder)
	}
}

func TestArchiveHabitUnknownID(t *testing.T) {
	svc := newTestService(t)

	if err := svc.ArchiveHabit(context.Background(), 404); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ArchiveHabit(404) error = %v, want ErrNotFound", err)
	}
}
