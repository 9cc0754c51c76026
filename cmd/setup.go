package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "url", r.config.Database.URL)

	store, err := r.store(false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(store); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	applied, err := shared.AppliedMigrations(store)
	if err != nil {
		return err
	}

	r.logger.Info("setup complete", "dialect", store.Dialect, "migrations", len(applied))
	return r.writePlain("%s Database ready (%s, %d migrations applied)\n", ui.Success("✓"), store.Dialect, len(applied))
}

// SetupConfig writes the embedded example configuration to --output.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		return fmt.Errorf("%w: --output", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s Config written to %s\n", ui.Success("✓"), path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set [database] url (or DATABASE_URL) to a SQLite path or postgres:// URL\n")
	r.writePlain("2. Run 'songbook --config %s setup database'\n", path)
	return nil
}
