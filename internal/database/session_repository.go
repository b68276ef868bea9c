package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// SessionRepo handles focus/work time sessions.
type SessionRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const sessionColumns = `id, category_id, date, duration, note, created_at, updated_at`

// CreateSession inserts a session. A missing category surfaces as
// models.ErrConstraint via the foreign key.
func (r *SessionRepo) CreateSession(ctx context.Context, s *models.TimeSession) (*models.TimeSession, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO time_sessions (category_id, date, duration, note)
		 VALUES (?, ?, ?, ?)`,
		s.CategoryID, s.Date, s.Duration, s.Note,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetSessionByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicSessions)
	return created, nil
}

// GetSessionByID returns the session or models.ErrNotFound.
func (r *SessionRepo) GetSessionByID(ctx context.Context, id int) (*models.TimeSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM time_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// GetSessions returns sessions in [from, to] inclusive ordered by date
// descending (most recent first). categoryID 0 means all categories.
func (r *SessionRepo) GetSessions(ctx context.Context, categoryID int, from, to string) ([]*models.TimeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM time_sessions WHERE date >= ? AND date <= ?`
	args := []any{from, to}
	if categoryID != 0 {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.TimeSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateSession replaces the full record for an existing id.
func (r *SessionRepo) UpdateSession(ctx context.Context, s *models.TimeSession) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE time_sessions
		 SET category_id = ?, date = ?, duration = ?, note = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.CategoryID, s.Date, s.Duration, s.Note, s.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicSessions)
	return nil
}

// DeleteSession hard-deletes a session (leaf record).
func (r *SessionRepo) DeleteSession(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicSessions)
	return nil
}

// SumDuration totals session seconds in [from, to]; categoryID 0 means
// all categories. An empty range yields 0.
func (r *SessionRepo) SumDuration(ctx context.Context, categoryID int, from, to string) (int64, error) {
	query := `SELECT COALESCE(SUM(duration), 0) FROM time_sessions WHERE date >= ? AND date <= ?`
	args := []any{from, to}
	if categoryID != 0 {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}

	var total int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

// SessionTotalsByDate groups session seconds by date over [from, to],
// ordered by date ascending. Dates with no sessions are absent.
func (r *SessionRepo) SessionTotalsByDate(ctx context.Context, from, to string) ([]*models.DateDuration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, SUM(duration) FROM time_sessions
		 WHERE date >= ? AND date <= ?
		 GROUP BY date ORDER BY date`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*models.DateDuration
	for rows.Next() {
		d := &models.DateDuration{}
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, err
		}
		totals = append(totals, d)
	}
	return totals, rows.Err()
}

// SessionTotalsByCategory groups session seconds by category over
// [from, to], largest total first.
func (r *SessionRepo) SessionTotalsByCategory(ctx context.Context, from, to string) ([]*models.CategoryDuration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.category_id, c.name, SUM(s.duration)
		 FROM time_sessions s JOIN categories c ON c.id = s.category_id
		 WHERE s.date >= ? AND s.date <= ?
		 GROUP BY s.category_id ORDER BY SUM(s.duration) DESC`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*models.CategoryDuration
	for rows.Next() {
		d := &models.CategoryDuration{}
		if err := rows.Scan(&d.CategoryID, &d.Name, &d.Total); err != nil {
			return nil, err
		}
		totals = append(totals, d)
	}
	return totals, rows.Err()
}

func scanSession(row rowScanner) (*models.TimeSession, error) {
	s := &models.TimeSession{}
	if err := row.Scan(&s.ID, &s.CategoryID, &s.Date, &s.Duration, &s.Note,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}
