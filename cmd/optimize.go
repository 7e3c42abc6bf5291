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
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/google/uuid"
	"github.com/mrds-es/minedist/internal/iodb"
	"github.com/mrds-es/minedist/internal/iooptimize"
	"github.com/spf13/cobra"
)

// getOptimizeCmd returns the optimize command.
func getOptimizeCmd() *cobra.Command {
	var dropRun string

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Remove superseded rows from the statistics table",
		Long: `Optimize maintains the PostgreSQL zone_year_stats table.

Every run with the postgres export appends its rows. This command:
  1. Keeps only the newest row of every site buffer and year
  2. Runs VACUUM ANALYZE on the table

With --drop-run it only removes all rows of the given run id, for
example of a run that was interrupted or used wrong settings.

Examples:
  minedist optimize
  minedist optimize --drop-run 0b4c4a57-2a5e-4b6f-9d0e-4a3c1c3f5d21`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runOptimize(cmd, dropRun)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	optimizeCmd.Flags().StringVarP(&dropRun, "drop-run", "d", "",
		"remove rows of this run id only")
	return optimizeCmd
}

func runOptimize(cmd *cobra.Command, dropRun string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	if dropRun != "" {
		if err := uuid.Validate(dropRun); err != nil {
			return err
		}
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	opt := iooptimize.NewOptimizer(op)
	if dropRun != "" {
		n, err := opt.DropRun(ctx, dropRun)
		if err != nil {
			return err
		}
		gn.Info("Removed <em>%s</em> rows of run %s",
			humanize.Comma(n), dropRun)
		return nil
	}

	gn.Info("Optimization in progress, <em>it might take a while</em>...")
	n, err := opt.Optimize(ctx)
	if err != nil {
		return err
	}
	gn.Info("Removed <em>%s</em> superseded rows", humanize.Comma(n))
	return nil
}
