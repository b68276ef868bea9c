// Package reminder fires daily habit reminders. Scheduling is best
// effort: a habit whose reminder cannot be registered is logged and
// skipped, and nothing else depends on the scheduler running.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/models"
)

// Notifier receives the reminder when it fires.
type Notifier interface {
	Notify(habit *models.Habit)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(habit *models.Habit)

func (f NotifierFunc) Notify(h *models.Habit) { f(h) }

// Scheduler owns the cron instance and the habit reminder entries.
type Scheduler struct {
	repo     database.DataStore
	notifier Notifier

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[int]cron.EntryID // habit id -> cron entry
}

func NewScheduler(repo database.DataStore, notifier Notifier) *Scheduler {
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		cron:     cron.New(),
		entries:  make(map[int]cron.EntryID),
	}
}

// Start registers every active habit's reminder and starts the cron
// loop. Registration failures are per-habit warnings, never fatal.
func (s *Scheduler) Start(ctx context.Context) error {
	habits, err := s.repo.GetHabits(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load habits for reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range habits {
		if err := s.addLocked(h); err != nil {
			slog.Warn("skipping habit reminder", "habit", h.Name, "error", err)
		}
	}

	s.cron.Start()
	slog.Info("reminder scheduler started", "reminders", len(s.entries))
	return nil
}

// Refresh re-reads habits and rebuilds the reminder entries. Called
// after habit writes so edits take effect without a restart.
func (s *Scheduler) Refresh(ctx context.Context) {
	habits, err := s.repo.GetHabits(ctx, true)
	if err != nil {
		slog.Warn("failed to refresh reminders", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = make(map[int]cron.EntryID)

	for _, h := range habits {
		if err := s.addLocked(h); err != nil {
			slog.Warn("skipping habit reminder", "habit", h.Name, "error", err)
		}
	}
}

// Stop halts the cron loop; running jobs finish first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) addLocked(h *models.Habit) error {
	if h.Reminder == nil {
		return nil
	}
	spec := fmt.Sprintf("%d %d * * *", h.Reminder.Minute, h.Reminder.Hour)
	habit := h
	id, err := s.cron.AddFunc(spec, func() {
		s.notifier.Notify(habit)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %q: %w", spec, err)
	}
	s.entries[h.ID] = id
	return nil
}
