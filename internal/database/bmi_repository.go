package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// BMIRepo handles BMI history records.
type BMIRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const bmiColumns = `id, date, height_cm, weight_kg, bmi, created_at`

// CreateBMIRecord inserts a BMI measurement.
func (r *BMIRepo) CreateBMIRecord(ctx context.Context, b *models.BMIRecord) (*models.BMIRecord, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO bmi_records (date, height_cm, weight_kg, bmi)
		 VALUES (?, ?, ?, ?)`,
		b.Date, b.HeightCm, b.WeightKg, b.BMI,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetBMIRecordByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicBMI)
	return created, nil
}

// GetBMIRecordByID returns the record or models.ErrNotFound.
func (r *BMIRepo) GetBMIRecordByID(ctx context.Context, id int) (*models.BMIRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bmiColumns+` FROM bmi_records WHERE id = ?`, id)
	b, err := scanBMIRecord(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// GetBMIRecords returns the history ordered by date ascending.
func (r *BMIRepo) GetBMIRecords(ctx context.Context) ([]*models.BMIRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bmiColumns+` FROM bmi_records ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.BMIRecord
	for rows.Next() {
		b, err := scanBMIRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, b)
	}
	return records, rows.Err()
}

// LatestBMIRecord returns the most recent measurement or
// models.ErrNotFound when the history is empty.
func (r *BMIRepo) LatestBMIRecord(ctx context.Context) (*models.BMIRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bmiColumns+` FROM bmi_records ORDER BY date DESC, id DESC LIMIT 1`)
	b, err := scanBMIRecord(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// DeleteBMIRecord hard-deletes a measurement (leaf record).
func (r *BMIRepo) DeleteBMIRecord(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bmi_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicBMI)
	return nil
}

func scanBMIRecord(row rowScanner) (*models.BMIRecord, error) {
	b := &models.BMIRecord{}
	if err := row.Scan(&b.ID, &b.Date, &b.HeightCm, &b.WeightKg, &b.BMI, &b.CreatedAt); err != nil {
		return nil, err
	}
	return b, nil
}
