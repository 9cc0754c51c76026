package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/ui"
	"github.com/urfave/cli/v3"
)

// DBCheck prints the tables in the database, the columns of songs and the applied migrations.
func (r *Runner) DBCheck(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store(false)
	if err != nil {
		return err
	}
	defer store.Close()

	tables, err := shared.InspectSchema(ctx, store)
	if err != nil {
		return err
	}

	applied, err := shared.AppliedMigrations(store)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Database (%s)", store.Dialect)))

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	r.writePlain("Tables: %v\n", names)
	r.writePlain("Migrations applied: %v\n", applied)

	var songs *shared.Table
	for i := range tables {
		if tables[i].Name == "songs" {
			songs = &tables[i]
		}
	}
	if songs == nil {
		r.writePlainln("%s", ui.Warn("songs table is missing; run 'songbook setup database'"))
		return nil
	}

	rows := make([][]string, len(songs.Columns))
	for i, c := range songs.Columns {
		rows[i] = []string{c.Name, c.Type, strconv.FormatBool(c.NotNull), strconv.FormatBool(c.PrimaryKey)}
	}
	r.writePlainln("Columns in songs:")
	return r.writePlain("%s\n", ui.Table([]string{"Name", "Type", "Not Null", "Primary Key"}, rows))
}

// DBRollback rolls back the most recent migration.
func (r *Runner) DBRollback(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store(false)
	if err != nil {
		return err
	}
	defer store.Close()

	applied, err := shared.AppliedMigrations(store)
	if err != nil {
		return err
	}

	if err := shared.RollbackMigration(store); err != nil {
		return err
	}

	version := applied[len(applied)-1]
	r.logger.Warn("migration rolled back", "version", version)
	return r.writePlain("%s Rolled back migration %d\n", ui.Warn("↩"), version)
}
