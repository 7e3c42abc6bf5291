package ioexport

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/mrds-es/minedist/internal/iofs"
	"github.com/mrds-es/minedist/pkg/trend"
)

// TrendPaths returns default summary and clean table paths next to the
// input table.
func TrendPaths(input string) (summary, clean string) {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_trend_summary.csv", base + "_clean.csv"
}

// ReadSamples reads an exported series table. It returns samples in
// file order and the number of data rows in the file.
func ReadSamples(path string, metrics []string) ([]trend.Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, TrendInputError(path, err)
	}
	defer f.Close()

	res, count, err := DecodeSamples(f, metrics)
	if err != nil {
		return nil, 0, TrendInputError(path, err)
	}
	if count == 0 {
		return nil, 0, TrendInputError(path, errors.New("input table is empty"))
	}
	return res, count, nil
}

// DecodeSamples reads samples from CSV data with a header.
func DecodeSamples(r io.Reader, metrics []string) ([]trend.Sample, int, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	idx := make(map[string]int)
	for i, v := range dec.Header() {
		if _, ok := idx[v]; !ok {
			idx[v] = i
		}
	}

	var res []trend.Sample
	var count int
	for {
		var raw trend.RawSample
		err = dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, count, err
		}
		count++
		rec := dec.Record()
		value := func(m string) string {
			if i, ok := idx[m]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		if s, ok := trend.NewSample(raw, metrics, value); ok {
			res = append(res, s)
		}
	}
	return res, count, nil
}

// WriteSummary saves trend summaries.
func WriteSummary(path string, summaries []trend.Summary) error {
	if err := iofs.EnsureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return CSVError(path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	enc := csvutil.NewEncoder(cw)
	if len(summaries) == 0 {
		err = enc.EncodeHeader(trend.Summary{})
	}
	for _, v := range summaries {
		if err != nil {
			break
		}
		err = enc.Encode(v)
	}
	if err != nil {
		return CSVError(path, err)
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return CSVError(path, err)
	}
	return nil
}

// WriteClean saves samples with their metric columns.
func WriteClean(path string, samples []trend.Sample, metrics []string) error {
	if err := iofs.EnsureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return CSVError(path, err)
	}
	defer f.Close()

	if err = EncodeClean(f, samples, metrics); err != nil {
		return CSVError(path, err)
	}
	return nil
}

// EncodeClean writes samples as CSV. Metric columns are only known at
// run time, so rows are assembled cell by cell.
func EncodeClean(w io.Writer, samples []trend.Sample, metrics []string) error {
	cw := csv.NewWriter(w)
	header := append([]string{
		"site_name", "site_id", "buffer_m", "year", "image_count", "qa_flag",
	}, metrics...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, v := range samples {
		row := []string{
			v.SiteName, v.SiteID, v.BufferM, strconv.Itoa(v.Year),
			intCell(v.ImageCount), v.QAFlag,
		}
		for _, m := range metrics {
			row = append(row, floatCell(v.Values[m]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
