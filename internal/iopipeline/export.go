package iopipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/mrds-es/minedist/internal/ioexport"
	"github.com/mrds-es/minedist/pkg/lifecycle"
)

// Export writes tables, zones and the run report according to the
// export settings. Rows are also sent to the sink when it is not nil.
func (p *Pipeline) Export(ctx context.Context, res *Result, sink lifecycle.Sink) error {
	ec := p.cfg.Export
	rep := res.Report
	w := ioexport.New(ec.Folder, ec.Prefix, rep.ScopeTag)
	years := rep.Years

	// the series is named by the requested export window, even when
	// analysis years cover only part of it
	if ec.Series && len(years) > 0 {
		a := p.cfg.Analysis
		path, err := w.Series(res.Rows, a.ExportStartYear, a.ExportEndYear)
		if err != nil {
			return err
		}
		rep.Files = append(rep.Files, path)
	}

	if ec.PerYear {
		paths, err := w.PerYear(res.Rows, years)
		if err != nil {
			return err
		}
		rep.Files = append(rep.Files, paths...)
	}

	if ec.ZonesGeoJSON {
		path := filepath.Join(ec.Folder, ioexport.ZonesFileName(ec.Prefix, rep.ScopeTag))
		if err := ioexport.WriteZones(path, res.Zones); err != nil {
			return err
		}
		rep.Files = append(rep.Files, path)
	}

	if sink != nil {
		n, err := sink.Write(ctx, rep.RunID, res.Rows)
		rep.DatabaseRows = n
		if err != nil {
			return err
		}
	}

	path := filepath.Join(ec.Folder, ioexport.ReportFileName(ec.Prefix, rep.ScopeTag))
	if err := ioexport.WriteReport(path, rep); err != nil {
		return err
	}
	slog.Info("Run report saved", "path", path)
	return nil
}
