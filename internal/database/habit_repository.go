package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// HabitRepo handles habits and their day-keyed completion log.
type HabitRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const habitColumns = `id, name, type, period_days, everyday, reminder_hour, reminder_minute, active, created_date, created_at`

// CreateHabit inserts a new habit and returns it with its assigned id.
func (r *HabitRepo) CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error) {
	var hour, minute sql.NullInt64
	if h.Reminder != nil {
		hour = sql.NullInt64{Int64: int64(h.Reminder.Hour), Valid: true}
		minute = sql.NullInt64{Int64: int64(h.Reminder.Minute), Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO habits (name, type, period_days, everyday, reminder_hour, reminder_minute, active, created_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Name, string(h.Type), h.PeriodDays, h.Everyday, hour, minute, h.Active, h.CreatedDate,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetHabitByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicHabits)
	return created, nil
}

// SaveHabit upserts a habit with an explicit id (backup restore path).
func (r *HabitRepo) SaveHabit(ctx context.Context, h *models.Habit) error {
	var hour, minute sql.NullInt64
	if h.Reminder != nil {
		hour = sql.NullInt64{Int64: int64(h.Reminder.Hour), Valid: true}
		minute = sql.NullInt64{Int64: int64(h.Reminder.Minute), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO habits (id, name, type, period_days, everyday, reminder_hour, reminder_minute, active, created_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, string(h.Type), h.PeriodDays, h.Everyday, hour, minute, h.Active, h.CreatedDate, h.CreatedAt,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicHabits)
	return nil
}

// GetHabits returns habits ordered by creation, newest first. With
// activeOnly set, archived habits are excluded.
func (r *HabitRepo) GetHabits(ctx context.Context, activeOnly bool) ([]*models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// GetHabitByID returns the habit or models.ErrNotFound. Archived habits
// are still returned; historical stats need them.
func (r *HabitRepo) GetHabitByID(ctx context.Context, id int) (*models.Habit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		return nil, notFound(err)
	}
	return h, nil
}

// UpdateHabit replaces the full record for an existing id.
func (r *HabitRepo) UpdateHabit(ctx context.Context, h *models.Habit) error {
	var hour, minute sql.NullInt64
	if h.Reminder != nil {
		hour = sql.NullInt64{Int64: int64(h.Reminder.Hour), Valid: true}
		minute = sql.NullInt64{Int64: int64(h.Reminder.Minute), Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE habits
		 SET name = ?, type = ?, period_days = ?, everyday = ?, reminder_hour = ?, reminder_minute = ?, active = ?, created_date = ?
		 WHERE id = ?`,
		h.Name, string(h.Type), h.PeriodDays, h.Everyday, hour, minute, h.Active, h.CreatedDate, h.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicHabits)
	return nil
}

// ArchiveHabit marks the habit inactive. Habits are never hard-deleted:
// their completion log stays queryable for historical stats.
func (r *HabitRepo) ArchiveHabit(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE habits SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicHabits)
	return nil
}

// LogCompletion upserts the completion for (habit, date). Re-logging a
// day overwrites kind and note rather than duplicating the row; this is
// the documented REPLACE-semantics operation for completions.
func (r *HabitRepo) LogCompletion(ctx context.Context, c *models.HabitCompletion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habit_completions (habit_id, date, kind, note)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (habit_id, date) DO UPDATE
		 SET kind = excluded.kind, note = excluded.note, recorded_at = CURRENT_TIMESTAMP`,
		c.HabitID, c.Date, string(c.Kind), c.Note,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicCompletions)
	return nil
}

// GetCompletion returns the completion for (habit, date) or
// models.ErrNotFound.
func (r *HabitRepo) GetCompletion(ctx context.Context, habitID int, date string) (*models.HabitCompletion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT habit_id, date, kind, note, recorded_at
		 FROM habit_completions WHERE habit_id = ? AND date = ?`,
		habitID, date)
	c, err := scanCompletion(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// GetCompletions returns a habit's completions in [from, to] inclusive,
// ordered by date ascending.
func (r *HabitRepo) GetCompletions(ctx context.Context, habitID int, from, to string) ([]*models.HabitCompletion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT habit_id, date, kind, note, recorded_at
		 FROM habit_completions
		 WHERE habit_id = ? AND date >= ? AND date <= ?
		 ORDER BY date`,
		habitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []*models.HabitCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// DeleteCompletion removes one day's log entry.
func (r *HabitRepo) DeleteCompletion(ctx context.Context, habitID int, date string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM habit_completions WHERE habit_id = ? AND date = ?`,
		habitID, date)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicCompletions)
	return nil
}

// CountCompletions returns the number of logged days for a habit in
// [from, to] inclusive. An empty range yields zero, not an error.
func (r *HabitRepo) CountCompletions(ctx context.Context, habitID int, from, to string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM habit_completions
		 WHERE habit_id = ? AND date >= ? AND date <= ?`,
		habitID, from, to).Scan(&count)
	return count, err
}

func scanHabit(row rowScanner) (*models.Habit, error) {
	h := &models.Habit{}
	var typ string
	var hour, minute sql.NullInt64
	if err := row.Scan(&h.ID, &h.Name, &typ, &h.PeriodDays, &h.Everyday,
		&hour, &minute, &h.Active, &h.CreatedDate, &h.CreatedAt); err != nil {
		return nil, err
	}
	h.Type, _ = models.ParseHabitType(typ)
	if hour.Valid && minute.Valid {
		h.Reminder = &models.ReminderTime{Hour: int(hour.Int64), Minute: int(minute.Int64)}
	}
	return h, nil
}

func scanCompletion(row rowScanner) (*models.HabitCompletion, error) {
	c := &models.HabitCompletion{}
	var kind string
	if err := row.Scan(&c.HabitID, &c.Date, &kind, &c.Note, &c.RecordedAt); err != nil {
		return nil, err
	}
	c.Kind, _ = models.ParseCompletionKind(kind)
	return c, nil
}
