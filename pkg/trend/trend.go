// Package trend summarizes exported zone-year series with change and
// slope estimates per site, buffer and metric.
package trend

import (
	"cmp"
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

// Directions of a trend.
const (
	Increasing       = "increasing"
	Decreasing       = "decreasing"
	Flat             = "flat"
	InsufficientData = "insufficient_data"
)

const (
	// DefaultMinYears is the smallest number of years with a value that
	// gets slope estimates.
	DefaultMinYears = 8
	// FlatEps is the largest absolute slope that is considered flat.
	FlatEps = 1e-4
)

// DefaultMetrics are summarized when no metrics are given.
var DefaultMetrics = []string{
	"mean_ndvi",
	"mean_ndmi",
	"mean_ndbi",
	"mean_ndti",
	"mean_savi",
	"mean_bsi",
	"bare_pct",
	"mining_soil_pct",
	"non_mining_soil_pct",
	"valid_px_pct",
}

// Point is a value of a metric in a year.
type Point struct {
	Year  int
	Value float64
}

// Sample is one row of an exported series with selected metric values.
// A nil value means the metric is missing for that year.
type Sample struct {
	SiteName   string
	SiteID     string
	BufferM    string
	Year       int
	ImageCount *int
	QAFlag     string
	Values     map[string]*float64
}

// Summary describes the change of one metric of one site buffer.
type Summary struct {
	SiteName          string   `csv:"site_name"`
	BufferM           string   `csv:"buffer_m"`
	Metric            string   `csv:"metric"`
	NYears            int      `csv:"n_years"`
	StartYear         *int     `csv:"start_year"`
	EndYear           *int     `csv:"end_year"`
	StartValue        *float64 `csv:"start_value"`
	EndValue          *float64 `csv:"end_value"`
	AbsChange         *float64 `csv:"abs_change"`
	PctChange         *float64 `csv:"pct_change"`
	OLSSlope          *float64 `csv:"ols_slope_per_year"`
	TheilSenSlope     *float64 `csv:"theil_sen_slope_per_year"`
	DirectionOLS      string   `csv:"direction_ols"`
	DirectionTheilSen string   `csv:"direction_theil_sen"`
}

// OLSSlope returns the least squares slope of values over years.
// The second value is false for less than two points or a single year.
func OLSSlope(pts []Point) (float64, bool) {
	if len(pts) < 2 {
		return 0, false
	}
	xs := make(stats.Float64Data, len(pts))
	ys := make(stats.Float64Data, len(pts))
	for i, v := range pts {
		xs[i] = float64(v.Year)
		ys[i] = v.Value
	}
	xbar, _ := stats.Mean(xs)
	ybar, _ := stats.Mean(ys)
	var num, den float64
	for i := range xs {
		num += (xs[i] - xbar) * (ys[i] - ybar)
		den += (xs[i] - xbar) * (xs[i] - xbar)
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// TheilSenSlope returns the median of slopes between all pairs of points
// with different years.
func TheilSenSlope(pts []Point) (float64, bool) {
	if len(pts) < 2 {
		return 0, false
	}
	var slopes stats.Float64Data
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			dx := pts[j].Year - pts[i].Year
			if dx != 0 {
				slopes = append(slopes, (pts[j].Value-pts[i].Value)/float64(dx))
			}
		}
	}
	res, err := stats.Median(slopes)
	if err != nil {
		return 0, false
	}
	return res, true
}

// Direction classifies a slope. Nil slope means there was not enough data.
func Direction(slope *float64) string {
	switch {
	case slope == nil:
		return InsufficientData
	case *slope > FlatEps:
		return Increasing
	case *slope < -FlatEps:
		return Decreasing
	default:
		return Flat
	}
}

// Sort orders samples by site name, buffer and year.
func Sort(samples []Sample) {
	slices.SortStableFunc(samples, func(a, b Sample) int {
		return cmp.Or(
			cmp.Compare(a.SiteName, b.SiteName),
			cmp.Compare(a.BufferM, b.BufferM),
			cmp.Compare(a.Year, b.Year),
		)
	})
}

// Summarize computes a summary for every site name, buffer and metric.
// Slopes are computed only for series with at least minYears values.
func Summarize(samples []Sample, metrics []string, minYears int) []Summary {
	type key struct{ site, buffer string }
	groups := make(map[key][]Sample)
	var keys []key
	for _, v := range samples {
		k := key{v.SiteName, v.BufferM}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], v)
	}
	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(cmp.Compare(a.site, b.site), cmp.Compare(a.buffer, b.buffer))
	})

	var res []Summary
	for _, k := range keys {
		for _, m := range metrics {
			pts := points(groups[k], m)
			s := summarize(pts, minYears)
			s.SiteName = k.site
			s.BufferM = k.buffer
			s.Metric = m
			res = append(res, s)
		}
	}
	return res
}

func points(samples []Sample, metric string) []Point {
	var res []Point
	for _, v := range samples {
		if val := v.Values[metric]; val != nil {
			res = append(res, Point{Year: v.Year, Value: *val})
		}
	}
	slices.SortStableFunc(res, func(a, b Point) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return res
}

func summarize(pts []Point, minYears int) Summary {
	res := Summary{NYears: len(pts)}
	if len(pts) > 0 {
		first, last := pts[0], pts[len(pts)-1]
		res.StartYear = &first.Year
		res.EndYear = &last.Year
		res.StartValue = &first.Value
		res.EndValue = &last.Value
		abs := last.Value - first.Value
		res.AbsChange = &abs
		if first.Value != 0 {
			pct := abs / math.Abs(first.Value) * 100
			res.PctChange = &pct
		}
	}
	if len(pts) >= minYears {
		if v, ok := OLSSlope(pts); ok {
			res.OLSSlope = &v
		}
		if v, ok := TheilSenSlope(pts); ok {
			res.TheilSenSlope = &v
		}
	}
	res.DirectionOLS = Direction(res.OLSSlope)
	res.DirectionTheilSen = Direction(res.TheilSenSlope)
	return res
}
