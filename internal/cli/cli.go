// Package cli wires the daytally command surface: thin cobra commands
// over the service layer, with JSON and quiet output modes for
// scripting.
package cli

import (
	"context"
	"fmt"

	"github.com/kbowers/daytally/internal/app"
	"github.com/kbowers/daytally/internal/config"
	"github.com/kbowers/daytally/internal/database"
	"github.com/kbowers/daytally/internal/events"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App
	Config *config.Config
	ctx    context.Context
}

// NewCLI opens the store and builds the application container.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewCLIWithConfig(ctx, cfg)
}

// NewCLIWithConfig is the injectable variant used by tests.
func NewCLIWithConfig(ctx context.Context, cfg *config.Config) (*CLI, error) {
	db, err := database.OpenShared(ctx, cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	bus := events.NewBroker()
	repo := database.NewRepository(db, bus)

	return &CLI{
		App:    app.New(repo, bus, cfg),
		Config: cfg,
		ctx:    ctx,
	}, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	return c.App.Close()
}
