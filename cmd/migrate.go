/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/internal/iodb"
	"github.com/mrds-es/minedist/internal/ioschema"
	"github.com/mrds-es/minedist/pkg/schema"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the statistics table schema",
		Long: `Migrate creates or updates the PostgreSQL schema of the
zone_year_stats table that receives rows of runs with the postgres
export enabled.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Runs GORM AutoMigrate for the zone_year_stats table
  3. Creates lookup indexes by run and by site
  4. Preserves existing data (non-destructive)

GORM AutoMigrate:
  - Adds the table if it does not exist
  - Adds new columns to the existing table
  - Does NOT delete columns or tables (safe)

The run command migrates the schema by itself before copying rows,
so migrate is only needed to prepare a database in advance.

Examples:
  minedist migrate
  MINEDIST_DATABASE_HOST=db.local minedist migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return migrateCmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	table := schema.ZoneYearStat{}.TableName()
	exists, err := op.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if exists {
		gn.Info("Updating existing table <em>%s</em>...", table)
	} else {
		gn.Info("Creating table <em>%s</em>...", table)
	}

	sm := ioschema.NewManager(op)
	if err = sm.Migrate(ctx); err != nil {
		return err
	}

	gn.Info("Schema is now up to date.")
	return nil
}
