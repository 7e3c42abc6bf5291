// Package composite builds per-year seasonal median composites from
// normalized observations.
package composite

import (
	"slices"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
)

// Composite is a per-pixel median image of one season.
type Composite struct {
	Year             int
	Start            time.Time
	End              time.Time
	ObservationCount int
	// SceneIDs lists observations that went into the median.
	SceneIDs      []string
	TopoCorrected bool
	Image         raster.Image
}

// Empty returns true if no observation contributed to the composite.
func (c Composite) Empty() bool {
	return c.ObservationCount == 0
}

// Settings control selection of observations.
type Settings struct {
	StartMonth int
	EndMonth   int
	// CloudCoverMax keeps scenes with cloud cover strictly below it.
	CloudCoverMax float64
	// MaxImages caps the number of the least cloudy scenes, 0 means no cap.
	MaxImages int
	// Bands are composited in this order; missing bands are masked.
	Bands []string
}

// Window returns the seasonal window [start, end) of a year. When the
// start month is after the end month, the season ends in the next year.
func Window(year, startMonth, endMonth int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	endYear := year
	if startMonth > endMonth {
		endYear++
	}
	// time.Date normalizes month 13 to January of the next year.
	end := time.Date(endYear, time.Month(endMonth)+1, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Compositor builds composites on a fixed target grid.
type Compositor struct {
	Settings
	Grid raster.Grid
}

// New creates a Compositor.
func New(st Settings, g raster.Grid) *Compositor {
	return &Compositor{Settings: st, Grid: g}
}

// Select returns observations of the season of a year in the order they
// contribute to the composite.
func (c *Compositor) Select(year int, obs []reflectance.Observation) []reflectance.Observation {
	start, end := Window(year, c.StartMonth, c.EndMonth)
	var res []reflectance.Observation
	for _, v := range obs {
		if v.Acquired.Before(start) || !v.Acquired.Before(end) {
			continue
		}
		if v.CloudCover >= c.CloudCoverMax {
			continue
		}
		res = append(res, v)
	}
	slices.SortStableFunc(res, func(a, b reflectance.Observation) int {
		switch {
		case a.CloudCover < b.CloudCover:
			return -1
		case a.CloudCover > b.CloudCover:
			return 1
		default:
			return a.Order - b.Order
		}
	})
	if c.MaxImages > 0 && len(res) > c.MaxImages {
		res = res[:c.MaxImages]
	}
	return res
}

// Compose selects observations of a year and computes a per-pixel median
// of every band over valid values. With no observation the composite is
// empty and all its pixels are masked.
func (c *Compositor) Compose(year int, obs []reflectance.Observation) Composite {
	start, end := Window(year, c.StartMonth, c.EndMonth)
	sel := c.Select(year, obs)
	res := Composite{
		Year:             year,
		Start:            start,
		End:              end,
		ObservationCount: len(sel),
		Image:            raster.NewImage(c.Grid, c.Bands...),
	}
	if len(sel) == 0 {
		return res
	}

	maps := make([][]int, len(sel))
	res.TopoCorrected = true
	for i, v := range sel {
		maps[i] = resample(c.Grid, v.Image.Grid)
		res.SceneIDs = append(res.SceneIDs, v.SceneID)
		res.TopoCorrected = res.TopoCorrected && v.TopoCorrected
	}

	vals := make(stats.Float64Data, 0, len(sel))
	for bi, name := range c.Bands {
		srcs := make([]raster.Band, len(sel))
		has := make([]bool, len(sel))
		for i, v := range sel {
			srcs[i], has[i] = v.Image.Band(name)
		}
		out := res.Image.Bands[bi]
		for px := range out.Data {
			vals = vals[:0]
			for i := range sel {
				si := maps[i][px]
				if !has[i] || si < 0 {
					continue
				}
				if v, ok := srcs[i].At(si); ok {
					vals = append(vals, v)
				}
			}
			if len(vals) == 0 {
				continue
			}
			med, err := stats.Median(vals)
			if err != nil {
				continue
			}
			out.Set(px, med)
		}
	}
	return res
}

// resample maps every target pixel to the source pixel that contains its
// center. Uncovered pixels get -1.
func resample(target, src raster.Grid) []int {
	res := make([]int, target.Len())
	if target == src {
		for i := range res {
			res[i] = i
		}
		return res
	}
	for i := range res {
		col, row := target.ColRow(i)
		si, ok := src.Locate(target.Center(col, row))
		if !ok {
			si = -1
		}
		res[i] = si
	}
	return res
}
