package ioexport

import (
	"os"
	"path/filepath"

	"github.com/gnames/gnfmt"
	"github.com/mrds-es/minedist/internal/iofs"
)

// ReportFileName returns the name of a run report.
func ReportFileName(prefix, tag string) string {
	return prefix + "_" + tag + "_report.json"
}

// WriteReport saves a run report as pretty JSON.
func WriteReport(path string, report any) error {
	if err := iofs.EnsureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(report)
	if err != nil {
		return ReportError(path, err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return ReportError(path, err)
	}
	return nil
}
