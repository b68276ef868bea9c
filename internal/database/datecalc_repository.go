package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// DateCalcRepo handles saved between-dates calculations.
type DateCalcRepo struct {
	db  *sql.DB
	bus events.Publisher
}

// CreateDateCalculation inserts a saved calculation.
func (r *DateCalcRepo) CreateDateCalculation(ctx context.Context, d *models.DateCalculation) (*models.DateCalculation, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO date_calculations (label, start_date, end_date, days)
		 VALUES (?, ?, ?, ?)`,
		d.Label, d.StartDate, d.EndDate, d.Days,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetDateCalculationByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicDateCalcs)
	return created, nil
}

// GetDateCalculationByID returns the record or models.ErrNotFound.
func (r *DateCalcRepo) GetDateCalculationByID(ctx context.Context, id int) (*models.DateCalculation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, label, start_date, end_date, days, created_at
		 FROM date_calculations WHERE id = ?`, id)
	d := &models.DateCalculation{}
	err := row.Scan(&d.ID, &d.Label, &d.StartDate, &d.EndDate, &d.Days, &d.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// GetDateCalculations returns saved calculations, newest first.
func (r *DateCalcRepo) GetDateCalculations(ctx context.Context) ([]*models.DateCalculation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, start_date, end_date, days, created_at
		 FROM date_calculations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calcs []*models.DateCalculation
	for rows.Next() {
		d := &models.DateCalculation{}
		if err := rows.Scan(&d.ID, &d.Label, &d.StartDate, &d.EndDate, &d.Days, &d.CreatedAt); err != nil {
			return nil, err
		}
		calcs = append(calcs, d)
	}
	return calcs, rows.Err()
}

// DeleteDateCalculation hard-deletes a saved calculation.
func (r *DateCalcRepo) DeleteDateCalculation(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM date_calculations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicDateCalcs)
	return nil
}
