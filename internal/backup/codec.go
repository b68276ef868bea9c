package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// Export captures every domain's full record set through the
// repository into a fresh snapshot.
func Export(ctx context.Context, repo *database.Repository) (*Snapshot, error) {
	s := &Snapshot{
		Version:   Version,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	profile, err := repo.GetProfile(ctx)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("exporting profile: %w", err)
	}
	if profile != nil {
		s.Profile = &ProfileRecord{
			DisplayName: profile.DisplayName,
			WeekStart:   int(profile.WeekStart),
		}
	}

	categories, err := repo.GetCategories(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("exporting categories: %w", err)
	}
	for _, c := range categories {
		s.Categories = append(s.Categories, CategoryRecord{
			ID:        c.ID,
			Name:      c.Name,
			Kind:      string(c.Kind),
			Color:     c.Color,
			Icon:      c.Icon,
			DailyGoal: c.DailyGoal,
			Active:    c.Active,
			SortOrder: c.SortOrder,
			CreatedAt: c.CreatedAt,
		})
	}

	habits, err := repo.GetHabits(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("exporting habits: %w", err)
	}
	for _, h := range habits {
		rec := HabitRecord{
			ID:          h.ID,
			Name:        h.Name,
			Type:        string(h.Type),
			PeriodDays:  h.PeriodDays,
			Everyday:    h.Everyday,
			Active:      h.Active,
			CreatedDate: h.CreatedDate,
			CreatedAt:   h.CreatedAt,
		}
		if h.Reminder != nil {
			hour, minute := h.Reminder.Hour, h.Reminder.Minute
			rec.ReminderHour, rec.ReminderMinute = &hour, &minute
		}
		s.Habits = append(s.Habits, rec)
	}

	// Log-style tables are read wholesale; the per-domain query methods
	// are range-scoped and would force artificial sentinel ranges here.
	if err := exportRows(ctx, repo.DB(), s); err != nil {
		return nil, err
	}

	return s, nil
}

func exportRows(ctx context.Context, db *sql.DB, s *Snapshot) error {
	rows, err := db.QueryContext(ctx,
		`SELECT habit_id, date, kind, note, recorded_at FROM habit_completions ORDER BY habit_id, date`)
	if err != nil {
		return fmt.Errorf("exporting completions: %w", err)
	}
	for rows.Next() {
		var r CompletionRecord
		if err := rows.Scan(&r.HabitID, &r.Date, &r.Kind, &r.Note, &r.RecordedAt); err != nil {
			rows.Close()
			return err
		}
		s.Completions = append(s.Completions, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, category_id, date, duration, note FROM time_sessions ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting sessions: %w", err)
	}
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.CategoryID, &r.Date, &r.Duration, &r.Note); err != nil {
			rows.Close()
			return err
		}
		s.Sessions = append(s.Sessions, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, category_id, date, amount, note FROM expenses ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting expenses: %w", err)
	}
	for rows.Next() {
		var r ExpenseRecord
		if err := rows.Scan(&r.ID, &r.CategoryID, &r.Date, &r.Amount, &r.Note); err != nil {
			rows.Close()
			return err
		}
		s.Expenses = append(s.Expenses, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, title, date, done FROM daily_tasks ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting tasks: %w", err)
	}
	for rows.Next() {
		var r TaskRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.Date, &r.Done); err != nil {
			rows.Close()
			return err
		}
		s.Tasks = append(s.Tasks, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, name, amount, period_days, next_due, active FROM subscriptions ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting subscriptions: %w", err)
	}
	for rows.Next() {
		var r SubscriptionRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Amount, &r.PeriodDays, &r.NextDue, &r.Active); err != nil {
			rows.Close()
			return err
		}
		s.Subscriptions = append(s.Subscriptions, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, label, start_date, end_date, days FROM date_calculations ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting date calculations: %w", err)
	}
	for rows.Next() {
		var r DateCalcRecord
		if err := rows.Scan(&r.ID, &r.Label, &r.StartDate, &r.EndDate, &r.Days); err != nil {
			rows.Close()
			return err
		}
		s.DateCalculations = append(s.DateCalculations, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, date, height_cm, weight_kg, bmi FROM bmi_records ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting bmi records: %w", err)
	}
	for rows.Next() {
		var r BMIRow
		if err := rows.Scan(&r.ID, &r.Date, &r.HeightCm, &r.WeightKg, &r.BMI); err != nil {
			rows.Close()
			return err
		}
		s.BMIRecords = append(s.BMIRecords, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, date, hour, duration FROM screen_time_hourly ORDER BY date, hour`)
	if err != nil {
		return fmt.Errorf("exporting screen time hourly: %w", err)
	}
	for rows.Next() {
		var r ScreenHourlyRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.Hour, &r.Duration); err != nil {
			rows.Close()
			return err
		}
		s.ScreenHourly = append(s.ScreenHourly, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, date, session_start, duration FROM screen_time_sessions ORDER BY id`)
	if err != nil {
		return fmt.Errorf("exporting screen time sessions: %w", err)
	}
	for rows.Next() {
		var r ScreenSessionRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.SessionStart, &r.Duration); err != nil {
			rows.Close()
			return err
		}
		s.ScreenSessions = append(s.ScreenSessions, r)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT date, total, unlock_count FROM screen_time_daily ORDER BY date`)
	if err != nil {
		return fmt.Errorf("exporting screen time daily: %w", err)
	}
	for rows.Next() {
		var r ScreenDailyRecord
		if err := rows.Scan(&r.Date, &r.Total, &r.UnlockCount); err != nil {
			rows.Close()
			return err
		}
		s.ScreenDaily = append(s.ScreenDaily, r)
	}
	return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// Restore replaces the store's contents with the snapshot's: every
// domain table is cleared and repopulated wholesale, all inside one
// transaction, so a failure leaves the store untouched. Ids are
// inserted verbatim; categories land before the records referencing
// them so foreign keys hold throughout. After the commit, every topic
// is published so live watchers re-query against the restored data.
func Restore(ctx context.Context, repo *database.Repository, s *Snapshot) error {
	if err := repo.WithTx(ctx, func(tx *sql.Tx) error {
		return restoreTx(ctx, tx, s)
	}); err != nil {
		return err
	}

	for _, topic := range events.AllTopics() {
		events.Publish(repo.Bus(), topic)
	}
	return nil
}

func restoreTx(ctx context.Context, tx *sql.Tx, s *Snapshot) error {
	// Children first so the category cascade never fires mid-restore.
	clears := []string{
		"DELETE FROM time_sessions",
		"DELETE FROM expenses",
		"DELETE FROM habit_completions",
		"DELETE FROM habits",
		"DELETE FROM categories",
		"DELETE FROM daily_tasks",
		"DELETE FROM subscriptions",
		"DELETE FROM date_calculations",
		"DELETE FROM bmi_records",
		"DELETE FROM screen_time_hourly",
		"DELETE FROM screen_time_sessions",
		"DELETE FROM screen_time_daily",
		"DELETE FROM user_profile",
	}
	for _, stmt := range clears {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing tables: %w", err)
		}
	}

	for _, c := range s.Categories {
		kind, _ := models.ParseCategoryKind(c.Kind)
		var goal sql.NullInt64
		if c.DailyGoal != nil {
			goal = sql.NullInt64{Int64: int64(*c.DailyGoal), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, kind, color, icon, daily_goal, active, sort_order, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(kind), c.Color, c.Icon, goal, c.Active, c.SortOrder, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring category %d: %w", c.ID, err)
		}
	}

	for _, h := range s.Habits {
		typ, _ := models.ParseHabitType(h.Type)
		var hour, minute sql.NullInt64
		if h.ReminderHour != nil && h.ReminderMinute != nil {
			hour = sql.NullInt64{Int64: int64(*h.ReminderHour), Valid: true}
			minute = sql.NullInt64{Int64: int64(*h.ReminderMinute), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO habits (id, name, type, period_days, everyday, reminder_hour, reminder_minute, active, created_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, string(typ), h.PeriodDays, h.Everyday, hour, minute, h.Active, h.CreatedDate, h.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring habit %d: %w", h.ID, err)
		}
	}

	for _, c := range s.Completions {
		kind, _ := models.ParseCompletionKind(c.Kind)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO habit_completions (habit_id, date, kind, note, recorded_at)
			 VALUES (?, ?, ?, ?, ?)`,
			c.HabitID, c.Date, string(kind), c.Note, c.RecordedAt,
		); err != nil {
			return fmt.Errorf("restoring completion (%d, %s): %w", c.HabitID, c.Date, err)
		}
	}

	for _, r := range s.Sessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO time_sessions (id, category_id, date, duration, note)
			 VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.CategoryID, r.Date, r.Duration, r.Note,
		); err != nil {
			return fmt.Errorf("restoring session %d: %w", r.ID, err)
		}
	}

	for _, r := range s.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, category_id, date, amount, note)
			 VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.CategoryID, r.Date, r.Amount, r.Note,
		); err != nil {
			return fmt.Errorf("restoring expense %d: %w", r.ID, err)
		}
	}

	for _, r := range s.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_tasks (id, title, date, done) VALUES (?, ?, ?, ?)`,
			r.ID, r.Title, r.Date, r.Done,
		); err != nil {
			return fmt.Errorf("restoring task %d: %w", r.ID, err)
		}
	}

	for _, r := range s.Subscriptions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subscriptions (id, name, amount, period_days, next_due, active)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Amount, r.PeriodDays, r.NextDue, r.Active,
		); err != nil {
			return fmt.Errorf("restoring subscription %d: %w", r.ID, err)
		}
	}

	for _, r := range s.DateCalculations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO date_calculations (id, label, start_date, end_date, days)
			 VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Label, r.StartDate, r.EndDate, r.Days,
		); err != nil {
			return fmt.Errorf("restoring date calculation %d: %w", r.ID, err)
		}
	}

	for _, r := range s.BMIRecords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bmi_records (id, date, height_cm, weight_kg, bmi)
			 VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Date, r.HeightCm, r.WeightKg, r.BMI,
		); err != nil {
			return fmt.Errorf("restoring bmi record %d: %w", r.ID, err)
		}
	}

	for _, r := range s.ScreenHourly {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screen_time_hourly (id, date, hour, duration) VALUES (?, ?, ?, ?)`,
			r.ID, r.Date, r.Hour, r.Duration,
		); err != nil {
			return fmt.Errorf("restoring screen time hour (%s, %d): %w", r.Date, r.Hour, err)
		}
	}

	for _, r := range s.ScreenSessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screen_time_sessions (id, date, session_start, duration) VALUES (?, ?, ?, ?)`,
			r.ID, r.Date, r.SessionStart, r.Duration,
		); err != nil {
			return fmt.Errorf("restoring screen time session %d: %w", r.ID, err)
		}
	}

	for _, r := range s.ScreenDaily {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screen_time_daily (date, total, unlock_count) VALUES (?, ?, ?)`,
			r.Date, r.Total, r.UnlockCount,
		); err != nil {
			return fmt.Errorf("restoring screen time day %s: %w", r.Date, err)
		}
	}

	if s.Profile != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_profile (id, display_name, week_start) VALUES (1, ?, ?)`,
			s.Profile.DisplayName, s.Profile.WeekStart,
		); err != nil {
			return fmt.Errorf("restoring profile: %w", err)
		}
	}

	return nil
}
