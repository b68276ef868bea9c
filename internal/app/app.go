package app

import (
	"github.com/kbowers/daytally/internal/backup"
	"github.com/kbowers/daytally/internal/config"
	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/events"
	habitservice "github.com/kbowers/daytally/internal/services/habit"
	summaryservice "github.com/kbowers/daytally/internal/services/summary"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	repo *database.Repository

	// Bus delivers table-scoped change events for live queries.
	Bus *events.Broker

	// Service layer (business logic)
	HabitService   habitservice.Service
	SummaryService summaryservice.Service

	// Backup manages snapshot files under the data dir.
	Backup *backup.Manager
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo *database.Repository, bus *events.Broker, cfg *config.Config) *App {
	return &App{
		repo:           repo,
		Bus:            bus,
		HabitService:   habitservice.NewService(repo),
		SummaryService: summaryservice.NewService(repo),
		Backup:         backup.NewManager(repo, cfg.DataDir, cfg.BackupRetention),
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Close performs cleanup of application resources.
func (a *App) Close() error {
	return nil
}
