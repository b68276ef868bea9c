package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// ScreenTimeRepo handles screen-time telemetry: hourly buckets, raw
// usage sessions, and the per-day rollup.
type ScreenTimeRepo struct {
	db  *sql.DB
	bus events.Publisher
}

// UpsertHourly records usage for one (date, hour) bucket. Re-reporting
// a bucket overwrites it (documented REPLACE semantics: telemetry is
// re-delivered, not appended).
func (r *ScreenTimeRepo) UpsertHourly(ctx context.Context, h *models.ScreenTimeHourly) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO screen_time_hourly (date, hour, duration)
		 VALUES (?, ?, ?)
		 ON CONFLICT (date, hour) DO UPDATE SET duration = excluded.duration`,
		h.Date, h.Hour, h.Duration,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicScreenTime)
	return nil
}

// GetHourly returns a day's hourly buckets ordered by hour.
func (r *ScreenTimeRepo) GetHourly(ctx context.Context, date string) ([]*models.ScreenTimeHourly, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, hour, duration FROM screen_time_hourly
		 WHERE date = ? ORDER BY hour`,
		date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*models.ScreenTimeHourly
	for rows.Next() {
		h := &models.ScreenTimeHourly{}
		if err := rows.Scan(&h.ID, &h.Date, &h.Hour, &h.Duration); err != nil {
			return nil, err
		}
		buckets = append(buckets, h)
	}
	return buckets, rows.Err()
}

// InsertScreenSession records one usage span. session_start is unique;
// a duplicate report surfaces as models.ErrConstraint (plain insert,
// not an upsert; a colliding span means the reporter is confused).
func (r *ScreenTimeRepo) InsertScreenSession(ctx context.Context, s *models.ScreenTimeSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO screen_time_sessions (date, session_start, duration)
		 VALUES (?, ?, ?)`,
		s.Date, s.SessionStart, s.Duration,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicScreenTime)
	return nil
}

// GetScreenSessions returns a day's usage spans ordered by start time.
func (r *ScreenTimeRepo) GetScreenSessions(ctx context.Context, date string) ([]*models.ScreenTimeSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, session_start, duration FROM screen_time_sessions
		 WHERE date = ? ORDER BY session_start`,
		date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.ScreenTimeSession
	for rows.Next() {
		s := &models.ScreenTimeSession{}
		if err := rows.Scan(&s.ID, &s.Date, &s.SessionStart, &s.Duration); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpsertDaily records the per-day rollup, keyed by date alone.
func (r *ScreenTimeRepo) UpsertDaily(ctx context.Context, d *models.ScreenTimeDaily) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO screen_time_daily (date, total, unlock_count)
		 VALUES (?, ?, ?)
		 ON CONFLICT (date) DO UPDATE
		 SET total = excluded.total, unlock_count = excluded.unlock_count`,
		d.Date, d.Total, d.UnlockCount,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicScreenTime)
	return nil
}

// GetDaily returns the rollup for a date or models.ErrNotFound.
func (r *ScreenTimeRepo) GetDaily(ctx context.Context, date string) (*models.ScreenTimeDaily, error) {
	d := &models.ScreenTimeDaily{}
	err := r.db.QueryRowContext(ctx,
		`SELECT date, total, unlock_count FROM screen_time_daily WHERE date = ?`,
		date).Scan(&d.Date, &d.Total, &d.UnlockCount)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// GetDailyRange returns rollups in [from, to] inclusive, date
// ascending.
func (r *ScreenTimeRepo) GetDailyRange(ctx context.Context, from, to string) ([]*models.ScreenTimeDaily, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, total, unlock_count FROM screen_time_daily
		 WHERE date >= ? AND date <= ? ORDER BY date`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*models.ScreenTimeDaily
	for rows.Next() {
		d := &models.ScreenTimeDaily{}
		if err := rows.Scan(&d.Date, &d.Total, &d.UnlockCount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// SumScreenTime totals rollup seconds over [from, to]; an empty range
// yields 0.
func (r *ScreenTimeRepo) SumScreenTime(ctx context.Context, from, to string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM screen_time_daily
		 WHERE date >= ? AND date <= ?`,
		from, to).Scan(&total)
	return total, err
}
