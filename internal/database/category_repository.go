package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// CategoryRepo handles all category-related database operations.
type CategoryRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const categoryColumns = `id, name, kind, color, icon, daily_goal, active, sort_order, created_at, updated_at`

// CreateCategory inserts a new category and returns it with its
// assigned id and timestamps.
func (r *CategoryRepo) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, kind, color, icon, daily_goal, active, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, string(c.Kind), c.Color, c.Icon, ptrToNullInt(c.DailyGoal), c.Active, c.SortOrder,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetCategoryByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicCategories)
	return created, nil
}

// SaveCategory upserts a category with an explicit id. This is the
// documented REPLACE-semantics path: a colliding id overwrites the row
// instead of failing, which backup restore and idempotent re-saves
// rely on.
func (r *CategoryRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (id, name, kind, color, icon, daily_goal, active, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		c.ID, c.Name, string(c.Kind), c.Color, c.Icon, ptrToNullInt(c.DailyGoal), c.Active, c.SortOrder, c.CreatedAt,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	events.Publish(r.bus, events.TopicCategories)
	return nil
}

// GetCategories returns categories ordered by sort_order, then newest
// first. With activeOnly set, archived categories are excluded.
func (r *CategoryRepo) GetCategories(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY sort_order, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByID returns the category or models.ErrNotFound.
func (r *CategoryRepo) GetCategoryByID(ctx context.Context, id int) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// UpdateCategory replaces the full record for an existing id.
func (r *CategoryRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories
		 SET name = ?, kind = ?, color = ?, icon = ?, daily_goal = ?, active = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, string(c.Kind), c.Color, c.Icon, ptrToNullInt(c.DailyGoal), c.Active, c.SortOrder, c.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicCategories)
	return nil
}

// ArchiveCategory flips the active flag off, preserving the category
// and everything referencing it. Preferred over DeleteCategory for
// categories with history.
func (r *CategoryRepo) ArchiveCategory(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicCategories)
	return nil
}

// DeleteCategory hard-deletes the category. Dependent sessions and
// expenses are removed by the foreign-key cascade.
func (r *CategoryRepo) DeleteCategory(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicCategories)
	events.Publish(r.bus, events.TopicSessions)
	events.Publish(r.bus, events.TopicExpenses)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	c := &models.Category{}
	var kind string
	var goal sql.NullInt64
	if err := row.Scan(&c.ID, &c.Name, &kind, &c.Color, &c.Icon, &goal,
		&c.Active, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Kind, _ = models.ParseCategoryKind(kind)
	c.DailyGoal = nullIntToPtr(goal)
	return c, nil
}
