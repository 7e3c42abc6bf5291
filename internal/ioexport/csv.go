// Package ioexport writes statistics tables, zone polygons, trend
// summaries and run reports to files.
package ioexport

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jszwec/csvutil"
	"github.com/mrds-es/minedist/internal/iofs"
	"github.com/mrds-es/minedist/pkg/export"
)

// Writer writes statistics tables into a folder.
type Writer struct {
	Folder string
	Prefix string
	// Tag is a scope tag that goes into every file name.
	Tag string
}

// New creates a table writer.
func New(folder, prefix, tag string) *Writer {
	return &Writer{Folder: folder, Prefix: prefix, Tag: tag}
}

// Series writes all rows into one table for the year range.
func (w *Writer) Series(rows []export.Row, start, end int) (string, error) {
	path := filepath.Join(w.Folder, export.SeriesFileName(w.Prefix, w.Tag, start, end))
	if err := WriteRows(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// PerYear writes one table for each of the years. A year without rows
// gets a table with a header only.
func (w *Writer) PerYear(rows []export.Row, years []int) ([]string, error) {
	_, byYear := export.ByYear(rows)
	res := make([]string, 0, len(years))
	for _, y := range years {
		path := filepath.Join(w.Folder, export.YearFileName(w.Prefix, w.Tag, y))
		if err := WriteRows(path, byYear[y]); err != nil {
			return res, err
		}
		res = append(res, path)
	}
	return res, nil
}

// WriteRows writes rows to a CSV file, creating its directory if needed.
func WriteRows(path string, rows []export.Row) error {
	if err := iofs.EnsureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return CSVError(path, err)
	}
	defer f.Close()

	if err = EncodeRows(f, rows); err != nil {
		return CSVError(path, err)
	}
	slog.Info("Table saved", "path", path, "rows", humanize.Comma(int64(len(rows))))
	return nil
}

// EncodeRows writes a header and rows as CSV. The header is written even
// when there are no rows.
func EncodeRows(w io.Writer, rows []export.Row) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if len(rows) == 0 {
		if err := enc.EncodeHeader(export.Row{}); err != nil {
			return err
		}
	}
	for _, v := range rows {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
