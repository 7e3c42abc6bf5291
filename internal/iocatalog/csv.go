package iocatalog

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/paulmach/orb"
)

// Fields maps catalog column names to site record fields.
type Fields struct {
	X    string
	Y    string
	Name string
}

// CSVSites reads site records from a CSV file.
type CSVSites struct {
	Path   string
	Fields Fields
}

// NewCSVSites creates a CSV site catalog.
func NewCSVSites(path string, f Fields) *CSVSites {
	return &CSVSites{Path: path, Fields: f}
}

// Sites implements catalog.SiteCatalog.
func (c *CSVSites) Sites(ctx context.Context, bound orb.Bound) ([]site.Record, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, SitesError(c.Path, err)
	}
	defer f.Close()

	recs, err := DecodeSites(f, c.Fields)
	if err != nil {
		return nil, SitesError(c.Path, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	return filterBound(recs, bound), nil
}

// DecodeSites reads records from CSV data. Column names given in fields
// replace the standard X, Y and Name columns.
func DecodeSites(r io.Reader, f Fields) ([]site.Record, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	header = remapHeader(header, f)

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, err
	}

	var res []site.Record
	for {
		var rec site.Record
		err = dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, nil
}

func remapHeader(header []string, f Fields) []string {
	names := map[string]string{
		f.X:    "X",
		f.Y:    "Y",
		f.Name: "Name",
	}
	res := make([]string, len(header))
	for i, v := range header {
		res[i] = v
		if std, ok := names[v]; ok && v != "" {
			res[i] = std
		}
	}
	return res
}

func filterBound(recs []site.Record, bound orb.Bound) []site.Record {
	if bound.IsZero() {
		return recs
	}
	var res []site.Record
	for _, v := range recs {
		x, okX := site.ParseCoord(v.X)
		y, okY := site.ParseCoord(v.Y)
		if okX && okY && bound.Contains(orb.Point{x, y}) {
			res = append(res, v)
		}
	}
	return res
}
