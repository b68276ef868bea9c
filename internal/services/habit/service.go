package habit

import (
	"context"
	"fmt"

	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/models"
	"github.com/kbowers/daytally/internal/stats"
)

// Service defines all habit-related business operations
type Service interface {
	// Read operations
	GetHabitWithStats(ctx context.Context, habitID int, today string) (*stats.HabitWithStats, error)
	GetAllWithStats(ctx context.Context, today string, activeOnly bool) ([]*stats.HabitWithStats, error)
	GetCompletions(ctx context.Context, habitID int, from, to string) ([]*models.HabitCompletion, error)

	// Write operations
	CreateHabit(ctx context.Context, req CreateHabitRequest) (*models.Habit, error)
	UpdateHabit(ctx context.Context, req UpdateHabitRequest) error
	ArchiveHabit(ctx context.Context, habitID int) error
	LogCompletion(ctx context.Context, req LogCompletionRequest) error
	RemoveCompletion(ctx context.Context, habitID int, date string) error
}

// CreateHabitRequest encapsulates all data needed to create a habit
type CreateHabitRequest struct {
	Name       string
	Type       models.HabitType
	PeriodDays int // 0 means every day
	Reminder   *models.ReminderTime
	Today      string // creation date, YYYY-MM-DD
}

// UpdateHabitRequest encapsulates a habit update.
// Fields with pointers are optional - nil means don't update
type UpdateHabitRequest struct {
	HabitID       int
	Name          *string
	PeriodDays    *int
	Reminder      *models.ReminderTime
	ClearReminder bool
}

// LogCompletionRequest records one day's outcome for a habit.
type LogCompletionRequest struct {
	HabitID int
	Date    string
	Kind    models.CompletionKind
	Note    string
	Today   string
}

// service implements Service interface
type service struct {
	repo database.DataStore
}

// NewService creates a new habit service
func NewService(repo database.DataStore) Service {
	return &service{repo: repo}
}

// CreateHabit handles habit creation with validation
func (s *service) CreateHabit(ctx context.Context, req CreateHabitRequest) (*models.Habit, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.PeriodDays < 0 {
		return nil, ErrInvalidPeriod
	}
	if err := validateReminder(req.Reminder); err != nil {
		return nil, err
	}
	if _, err := models.ParseDate(req.Today); err != nil {
		return nil, ErrInvalidDate
	}

	period := req.PeriodDays
	if period == 0 {
		period = 1
	}

	habit, err := s.repo.CreateHabit(ctx, &models.Habit{
		Name:        req.Name,
		Type:        req.Type,
		PeriodDays:  period,
		Everyday:    req.PeriodDays <= 1,
		Reminder:    req.Reminder,
		Active:      true,
		CreatedDate: req.Today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

// UpdateHabit handles habit updates with validation
func (s *service) UpdateHabit(ctx context.Context, req UpdateHabitRequest) error {
	if req.HabitID <= 0 {
		return ErrInvalidHabitID
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.PeriodDays != nil && *req.PeriodDays < 1 {
		return ErrInvalidPeriod
	}
	if err := validateReminder(req.Reminder); err != nil {
		return err
	}

	habit, err := s.repo.GetHabitByID(ctx, req.HabitID)
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}

	if req.Name != nil {
		habit.Name = *req.Name
	}
	if req.PeriodDays != nil {
		habit.PeriodDays = *req.PeriodDays
		habit.Everyday = *req.PeriodDays <= 1
	}
	if req.Reminder != nil {
		habit.Reminder = req.Reminder
	} else if req.ClearReminder {
		habit.Reminder = nil
	}

	if err := s.repo.UpdateHabit(ctx, habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return nil
}

// ArchiveHabit marks the habit inactive, keeping its history
func (s *service) ArchiveHabit(ctx context.Context, habitID int) error {
	if habitID <= 0 {
		return ErrInvalidHabitID
	}
	if err := s.repo.ArchiveHabit(ctx, habitID); err != nil {
		return fmt.Errorf("failed to archive habit: %w", err)
	}
	return nil
}

// LogCompletion records one day's outcome, overwriting any earlier log
// for the same day
func (s *service) LogCompletion(ctx context.Context, req LogCompletionRequest) error {
	if req.HabitID <= 0 {
		return ErrInvalidHabitID
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return ErrInvalidDate
	}
	today, err := models.ParseDate(req.Today)
	if err != nil {
		return ErrInvalidDate
	}
	if date.After(today) {
		return ErrDateInFuture
	}

	habit, err := s.repo.GetHabitByID(ctx, req.HabitID)
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	created, err := models.ParseDate(habit.CreatedDate)
	if err != nil {
		return fmt.Errorf("habit has invalid creation date: %w", err)
	}
	if date.Before(created) {
		return ErrDateBeforeCreated
	}

	err = s.repo.LogCompletion(ctx, &models.HabitCompletion{
		HabitID: req.HabitID,
		Date:    req.Date,
		Kind:    req.Kind,
		Note:    req.Note,
	})
	if err != nil {
		return fmt.Errorf("failed to log completion: %w", err)
	}
	return nil
}

// RemoveCompletion deletes one day's log entry
func (s *service) RemoveCompletion(ctx context.Context, habitID int, date string) error {
	if habitID <= 0 {
		return ErrInvalidHabitID
	}
	if _, err := models.ParseDate(date); err != nil {
		return ErrInvalidDate
	}
	if err := s.repo.DeleteCompletion(ctx, habitID, date); err != nil {
		return fmt.Errorf("failed to remove completion: %w", err)
	}
	return nil
}

// GetHabitWithStats returns one habit with its derived streak summary
func (s *service) GetHabitWithStats(ctx context.Context, habitID int, today string) (*stats.HabitWithStats, error) {
	if habitID <= 0 {
		return nil, ErrInvalidHabitID
	}
	if _, err := models.ParseDate(today); err != nil {
		return nil, ErrInvalidDate
	}

	habit, err := s.repo.GetHabitByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return s.withStats(ctx, habit, today)
}

// GetAllWithStats returns every habit with its derived streak summary
func (s *service) GetAllWithStats(ctx context.Context, today string, activeOnly bool) ([]*stats.HabitWithStats, error) {
	if _, err := models.ParseDate(today); err != nil {
		return nil, ErrInvalidDate
	}

	habits, err := s.repo.GetHabits(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	result := make([]*stats.HabitWithStats, 0, len(habits))
	for _, h := range habits {
		hs, err := s.withStats(ctx, h, today)
		if err != nil {
			return nil, err
		}
		result = append(result, hs)
	}
	return result, nil
}

// GetCompletions returns a habit's log entries in [from, to]
func (s *service) GetCompletions(ctx context.Context, habitID int, from, to string) ([]*models.HabitCompletion, error) {
	if habitID <= 0 {
		return nil, ErrInvalidHabitID
	}
	return s.repo.GetCompletions(ctx, habitID, from, to)
}

func (s *service) withStats(ctx context.Context, h *models.Habit, today string) (*stats.HabitWithStats, error) {
	completions, err := s.repo.GetCompletions(ctx, h.ID, h.CreatedDate, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}
	hs, err := stats.Compute(h, completions, today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &hs, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func validateReminder(r *models.ReminderTime) error {
	if r == nil {
		return nil
	}
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return ErrInvalidReminder
	}
	return nil
}
