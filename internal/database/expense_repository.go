package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
)

// ExpenseRepo handles expenses. Amounts are stored as exact decimal
// strings and summed in Go; SQLite's floating SUM would drift.
type ExpenseRepo struct {
	db  *sql.DB
	bus events.Publisher
}

const expenseColumns = `id, category_id, date, amount, note, created_at, updated_at`

// CreateExpense inserts an expense (plain insert; duplicates are legal,
// a missing category surfaces as models.ErrConstraint).
func (r *ExpenseRepo) CreateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (category_id, date, amount, note)
		 VALUES (?, ?, ?, ?)`,
		e.CategoryID, e.Date, e.Amount.String(), e.Note,
	)
	if err != nil {
		return nil, wrapConstraint(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := r.GetExpenseByID(ctx, int(id))
	if err != nil {
		return nil, err
	}

	events.Publish(r.bus, events.TopicExpenses)
	return created, nil
}

// GetExpenseByID returns the expense or models.ErrNotFound.
func (r *ExpenseRepo) GetExpenseByID(ctx context.Context, id int) (*models.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// GetExpenses returns expenses in [from, to] inclusive ordered by date
// descending. categoryID 0 means all categories.
func (r *ExpenseRepo) GetExpenses(ctx context.Context, categoryID int, from, to string) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE date >= ? AND date <= ?`
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

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense replaces the full record for an existing id.
func (r *ExpenseRepo) UpdateExpense(ctx context.Context, e *models.Expense) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET category_id = ?, date = ?, amount = ?, note = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.CategoryID, e.Date, e.Amount.String(), e.Note, e.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicExpenses)
	return nil
}

// DeleteExpense hard-deletes an expense (leaf record).
func (r *ExpenseRepo) DeleteExpense(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	events.Publish(r.bus, events.TopicExpenses)
	return nil
}

// SumExpenses totals amounts in [from, to]; categoryID 0 means all
// categories. An empty range yields decimal zero.
func (r *ExpenseRepo) SumExpenses(ctx context.Context, categoryID int, from, to string) (decimal.Decimal, error) {
	query := `SELECT amount FROM expenses WHERE date >= ? AND date <= ?`
	args := []any{from, to}
	if categoryID != 0 {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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

// ExpenseTotalsByDate groups amounts by date over [from, to], ordered
// by date ascending.
func (r *ExpenseRepo) ExpenseTotalsByDate(ctx context.Context, from, to string) ([]*models.DateAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, amount FROM expenses
		 WHERE date >= ? AND date <= ? ORDER BY date`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*models.DateAmount
	for rows.Next() {
		var date, raw string
		if err := rows.Scan(&date, &raw); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("stored amount %q is not a decimal: %w", raw, err)
		}
		if n := len(totals); n > 0 && totals[n-1].Date == date {
			totals[n-1].Amount = totals[n-1].Amount.Add(amount)
			continue
		}
		totals = append(totals, &models.DateAmount{Date: date, Amount: amount})
	}
	return totals, rows.Err()
}

// ExpenseTotalsByCategory groups amounts by category over [from, to].
func (r *ExpenseRepo) ExpenseTotalsByCategory(ctx context.Context, from, to string) ([]*models.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.category_id, c.name, e.amount
		 FROM expenses e JOIN categories c ON c.id = e.category_id
		 WHERE e.date >= ? AND e.date <= ?
		 ORDER BY e.category_id`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*models.CategoryAmount
	for rows.Next() {
		var id int
		var name, raw string
		if err := rows.Scan(&id, &name, &raw); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("stored amount %q is not a decimal: %w", raw, err)
		}
		if n := len(totals); n > 0 && totals[n-1].CategoryID == id {
			totals[n-1].Amount = totals[n-1].Amount.Add(amount)
			continue
		}
		totals = append(totals, &models.CategoryAmount{CategoryID: id, Name: name, Amount: amount})
	}
	return totals, rows.Err()
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var raw string
	if err := row.Scan(&e.ID, &e.CategoryID, &e.Date, &raw, &e.Note,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q is not a decimal: %w", raw, err)
	}
	e.Amount = amount
	return e, nil
}
