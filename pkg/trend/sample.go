package trend

import (
	"math"
	"strconv"
	"strings"
)

// RawSample holds text fields of an exported row that identify a series.
type RawSample struct {
	SiteName   string `csv:"site_name"`
	SiteID     string `csv:"site_id"`
	BufferM    string `csv:"buffer_m"`
	Year       string `csv:"year"`
	ImageCount string `csv:"image_count"`
	QAFlag     string `csv:"qa_flag"`
}

// ParseValue converts a cell to a number. Empty cells, garbage and NaN
// give nil.
func ParseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	res, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(res) {
		return nil
	}
	return &res
}

// ParseYear converts a cell to an integer, rounding to the nearest even
// number on ties.
func ParseYear(s string) *int {
	v := ParseValue(s)
	if v == nil || math.IsInf(*v, 0) {
		return nil
	}
	res := int(math.RoundToEven(*v))
	return &res
}

// NewSample creates a sample from a row. The value function returns the
// text of a metric cell. The second result is false when the row has no
// year, site name or buffer.
func NewSample(r RawSample, metrics []string, value func(string) string) (Sample, bool) {
	res := Sample{
		SiteName: strings.TrimSpace(r.SiteName),
		SiteID:   strings.TrimSpace(r.SiteID),
		BufferM:  strings.TrimSpace(r.BufferM),
		QAFlag:   r.QAFlag,
	}
	year := ParseYear(r.Year)
	if year == nil || res.SiteName == "" || res.BufferM == "" {
		return res, false
	}
	res.Year = *year
	res.ImageCount = ParseYear(r.ImageCount)
	res.Values = make(map[string]*float64, len(metrics))
	for _, m := range metrics {
		res.Values[m] = ParseValue(value(m))
	}
	return res, true
}

// ParseMetrics splits a comma-separated list of metric columns.
func ParseMetrics(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
