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
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/internal/iocatalog"
	"github.com/mrds-es/minedist/internal/iodb"
	"github.com/mrds-es/minedist/internal/iofs"
	"github.com/mrds-es/minedist/internal/iopipeline"
	"github.com/mrds-es/minedist/internal/iopopulate"
	"github.com/mrds-es/minedist/internal/ioschema"
	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/config"
	"github.com/mrds-es/minedist/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getRunCmd returns the run command.
func getRunCmd() *cobra.Command {
	var flags runFlags

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Compute and export zone-year disturbance statistics",
		Long: `Run computes annual statistics of every buffer zone of selected
sites and exports them.

This command:
  1. Reads site records from a CSV or SQLite catalog
  2. Drops sites with invalid coordinates, applies filters and scope
  3. Builds circular zones for every buffer radius
  4. For every site and year builds a median composite of scenes of
     the seasonal window, with optional illumination correction
  5. Classifies pixels by NDVI and aggregates zone statistics
  6. Writes CSV tables, zone GeoJSON and a JSON run report
  7. Optionally copies rows to the PostgreSQL zone_year_stats table

Failed or timed out site-years are logged and listed in the report,
the run continues with the rest of the work.

Examples:
  minedist run
  minedist run --site-name "Mina Vieja" -s 2000 -e 2024
  minedist run --partition-count 4 --partition-index 0 -j 8
  minedist run -b 500,1000 --per-year --zones -o exports
  minedist run --postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(flags.options(cmd))
			err := runRun(cmd, !flags.quiet)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.register(runCmd)
	return runCmd
}

func runRun(cmd *cobra.Command, progress bool) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	cats, err := openCatalogs(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer cats.Close()

	if err = iofs.EnsureOutputDir(cfg.Export.Folder); err != nil {
		return err
	}

	var sink lifecycle.Sink
	if cfg.Export.Postgres {
		op := iodb.NewPgxOperator()
		if err = op.Connect(ctx, &cfg.Database); err != nil {
			return err
		}
		defer op.Close()

		if err = ioschema.NewManager(op).Migrate(ctx); err != nil {
			return err
		}
		sink = iopopulate.New(op, cfg.Database.BatchSize)
	}

	popts := []iopipeline.Option{iopipeline.OptProgress(progress)}
	if cfg.Topo.Enabled {
		popts = append(popts, iopipeline.OptTerrain(cats.terrain))
	}

	gn.Info("Computing statistics for years <em>%d-%d</em>...",
		cfg.Analysis.StartYear, cfg.Analysis.EndYear)
	p := iopipeline.New(cfg, cats.sites, cats.scenes, popts...)
	res, err := p.Compute(ctx)
	if err != nil {
		return err
	}

	if err = p.Export(ctx, res, sink); err != nil {
		return err
	}

	rep := res.Report
	gn.Info(
		"Run <em>%s</em> finished in %s: %s rows, %s omitted, %s skipped",
		rep.RunID, rep.Duration,
		humanize.Comma(int64(rep.UnitsSucceeded)),
		humanize.Comma(int64(rep.UnitsOmitted)),
		humanize.Comma(int64(rep.UnitsSkipped)),
	)
	if sink != nil {
		gn.Info("Copied <em>%s</em> rows to PostgreSQL",
			humanize.Comma(int64(rep.DatabaseRows)))
	}
	for _, v := range rep.Files {
		gn.Info("Saved <em>%s</em>", v)
	}
	return nil
}

// signalContext is canceled on interrupt.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// catalogs keeps data sources of a run and closes them.
type catalogs struct {
	sites   catalog.SiteCatalog
	scenes  catalog.SceneCatalog
	terrain catalog.TerrainSource
	closers []func() error
}

func (c *catalogs) Close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}

// isCSV tells if a site catalog is a CSV file.
func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// openCatalogs opens the site catalog and, if withScenes is true, the
// scene catalog. A CSV site catalog is read directly, any other file is
// opened as SQLite. Scenes and elevation always come from SQLite.
func openCatalogs(ctx context.Context, cfg *config.Config, withScenes bool) (*catalogs, error) {
	cc := cfg.Catalog
	fields := iocatalog.Fields{X: cc.XField, Y: cc.YField, Name: cc.NameField}
	res := &catalogs{}

	var scenes *iocatalog.SQLite
	if isCSV(cc.SitesPath) {
		res.sites = iocatalog.NewCSVSites(cc.SitesPath, fields)
	} else {
		sdb, err := iocatalog.Open(ctx, cc.SitesPath, fields)
		if err != nil {
			return nil, err
		}
		res.closers = append(res.closers, sdb.Close)
		res.sites = sdb
		if cc.ScenesPath == cc.SitesPath {
			scenes = sdb
		}
	}
	if !withScenes {
		return res, nil
	}

	if scenes == nil {
		sdb, err := iocatalog.Open(ctx, cc.ScenesPath, fields)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.closers = append(res.closers, sdb.Close)
		scenes = sdb
	}
	res.scenes = scenes
	res.terrain = scenes
	return res, nil
}
