package habit

import "errors"

// Habit-related errors
var (
	// Validation errors
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNameTooLong       = errors.New("name cannot exceed 100 characters")
	ErrInvalidHabitID    = errors.New("invalid habit ID")
	ErrInvalidPeriod     = errors.New("period must be at least one day")
	ErrInvalidReminder   = errors.New("reminder time out of range")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrDateBeforeCreated = errors.New("date is before the habit was created")
	ErrDateInFuture      = errors.New("date is in the future")
)
