package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// ProfileRepo handles the singleton user profile row.
type ProfileRepo struct {
	db  *sql.DB
	bus events.Publisher
}

// GetProfile returns the profile or models.ErrNotFound when none has
// been saved yet.
func (r *ProfileRepo) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	var weekStart int
	err := r.db.QueryRowContext(ctx,
		`SELECT display_name, week_start, updated_at FROM user_profile WHERE id = 1`).
		Scan(&p.DisplayName, &weekStart, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	p.WeekStart = time.Weekday(weekStart % 7)
	return p, nil
}

// SaveProfile upserts the single profile row (REPLACE semantics; there
// is never more than one row).
func (r *ProfileRepo) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profile (id, display_name, week_start, updated_at)
		 VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE
		 SET display_name = excluded.display_name,
		     week_start = excluded.week_start,
		     updated_at = CURRENT_TIMESTAMP`,
		p.DisplayName, int(p.WeekStart),
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicProfile)
	return nil
}
