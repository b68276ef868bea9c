package database

import (
	"context"
	"database/sql"

	"github.com/kbowers/daytally/internal/events"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
// Every repository shares the same connection and change publisher;
// collaborators never touch raw storage directly.
type Repository struct {
	*CategoryRepo
	*HabitRepo
	*SessionRepo
	*ExpenseRepo
	*TaskRepo
	*SubscriptionRepo
	*DateCalcRepo
	*BMIRepo
	*ScreenTimeRepo
	*ProfileRepo

	db  *sql.DB
	bus events.Publisher
}

// NewRepository creates a Repository over the given connection. bus may
// be nil when no one is listening (most tests).
func NewRepository(db *sql.DB, bus events.Publisher) *Repository {
	return &Repository{
		CategoryRepo:     &CategoryRepo{db: db, bus: bus},
		HabitRepo:        &HabitRepo{db: db, bus: bus},
		SessionRepo:      &SessionRepo{db: db, bus: bus},
		ExpenseRepo:      &ExpenseRepo{db: db, bus: bus},
		TaskRepo:         &TaskRepo{db: db, bus: bus},
		SubscriptionRepo: &SubscriptionRepo{db: db, bus: bus},
		DateCalcRepo:     &DateCalcRepo{db: db, bus: bus},
		BMIRepo:          &BMIRepo{db: db, bus: bus},
		ScreenTimeRepo:   &ScreenTimeRepo{db: db, bus: bus},
		ProfileRepo:      &ProfileRepo{db: db, bus: bus},
		db:               db,
		bus:              bus,
	}
}

// DB exposes the underlying connection for the backup codec, which
// needs transaction control across every table.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Bus exposes the shared change publisher so bulk writers outside this
// package can notify subscribers. May be nil.
func (r *Repository) Bus() events.Publisher {
	return r.bus
}

// WithTx executes fn inside a transaction on the shared connection,
// rolling back on error and committing on success.
func (r *Repository) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return withTx(ctx, r.db, fn)
}
