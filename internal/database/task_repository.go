package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// TaskRepo handles one-off daily tasks.
type TaskRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const taskColumns = `id, title, date, done, created_at, updated_at`

// CreateTask inserts a task for a given day.
func (r *TaskRepo) CreateTask(ctx context.Context, t *models.DailyTask) (*models.DailyTask, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_tasks (title, date, done) VALUES (?, ?, ?)`,
		t.Title, t.Date, t.Done,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetTaskByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicTasks)
	return created, nil
}

// GetTaskByID returns the task or models.ErrNotFound.
func (r *TaskRepo) GetTaskByID(ctx context.Context, id int) (*models.DailyTask, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM daily_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// GetTasksByDate returns a day's tasks, open ones first, oldest first
// within each group.
func (r *TaskRepo) GetTasksByDate(ctx context.Context, date string) ([]*models.DailyTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM daily_tasks
		 WHERE date = ? ORDER BY done, created_at, id`,
		date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.DailyTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask replaces the full record for an existing id.
func (r *TaskRepo) UpdateTask(ctx context.Context, t *models.DailyTask) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE daily_tasks
		 SET title = ?, date = ?, done = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.Title, t.Date, t.Done, t.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicTasks)
	return nil
}

// SetTaskDone flips a task's done flag.
func (r *TaskRepo) SetTaskDone(ctx context.Context, id int, done bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE daily_tasks SET done = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		done, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicTasks)
	return nil
}

// DeleteTask hard-deletes a task (leaf record).
func (r *TaskRepo) DeleteTask(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM daily_tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicTasks)
	return nil
}

// CountTasksByDate reports a day's total and completed task counts.
// A day with no tasks yields zero counts.
func (r *TaskRepo) CountTasksByDate(ctx context.Context, date string) (models.TaskCounts, error) {
	var counts models.TaskCounts
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(done), 0) FROM daily_tasks WHERE date = ?`,
		date).Scan(&counts.Total, &counts.Done)
	return counts, err
}

func scanTask(row rowScanner) (*models.DailyTask, error) {
	t := &models.DailyTask{}
	if err := row.Scan(&t.ID, &t.Title, &t.Date, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}
