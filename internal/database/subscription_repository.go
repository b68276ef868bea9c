package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// SubscriptionRepo handles recurring payment records.
type SubscriptionRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const subscriptionColumns = `id, name, amount, period_days, next_due, active, created_at, updated_at`

// CreateSubscription inserts a subscription.
func (r *SubscriptionRepo) CreateSubscription(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (name, amount, period_days, next_due, active)
		 VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.Amount.String(), s.PeriodDays, s.NextDue, s.Active,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetSubscriptionByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicSubscriptions)
	return created, nil
}

// GetSubscriptionByID returns the subscription or models.ErrNotFound.
func (r *SubscriptionRepo) GetSubscriptionByID(ctx context.Context, id int) (*models.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	s, err := scanSubscription(row)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// GetSubscriptions returns subscriptions ordered by next due date
// ascending. With activeOnly set, cancelled ones are excluded.
func (r *SubscriptionRepo) GetSubscriptions(ctx context.Context, activeOnly bool) ([]*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY next_due, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// UpdateSubscription replaces the full record for an existing id.
func (r *SubscriptionRepo) UpdateSubscription(ctx context.Context, s *models.Subscription) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions
		 SET name = ?, amount = ?, period_days = ?, next_due = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.Name, s.Amount.String(), s.PeriodDays, s.NextDue, s.Active, s.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicSubscriptions)
	return nil
}

// DeleteSubscription hard-deletes a subscription (leaf record).
func (r *SubscriptionRepo) DeleteSubscription(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicSubscriptions)
	return nil
}

// SumActiveSubscriptions totals the amounts of active subscriptions.
// No active subscriptions yields decimal zero.
func (r *SubscriptionRepo) SumActiveSubscriptions(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount FROM subscriptions WHERE active = 1`)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("stored amount %q is not a decimal: %w", raw, err)
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	s := &models.Subscription{}
	var raw string
	if err := row.Scan(&s.ID, &s.Name, &raw, &s.PeriodDays, &s.NextDue,
		&s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q is not a decimal: %w", raw, err)
	}
	s.Amount = amount
	return s, nil
}
