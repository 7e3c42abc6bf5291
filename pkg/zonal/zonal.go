// Package zonal computes per zone and year statistics of a classified
// seasonal composite.
package zonal

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/mrds-es/minedist/pkg/classify"
	"github.com/mrds-es/minedist/pkg/composite"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/spectral"
	"github.com/mrds-es/minedist/pkg/zone"
)

// Quality flags.
const (
	FlagOK             = "ok"
	FlagLowValidPixels = "low_valid_pixels"
)

// DefaultMinValidPct is the smallest valid pixel percentage that is not
// flagged.
const DefaultMinValidPct = 20.0

// auxIndices are averaged over valid pixels of the zone.
var auxIndices = []string{
	spectral.NDMI, spectral.NDBI, spectral.NDTI, spectral.SAVI,
	spectral.BSI, spectral.IOI, spectral.CLAY, spectral.FERROUS,
}

// Stat is a summary of one zone in one year. Index statistics are nil
// when the zone has no valid pixels.
type Stat struct {
	SiteID      string
	SiteName    string
	ProdStage   string
	Commodities string
	Year        int
	BufferM     int

	MeanNDVI   *float64
	MedianNDVI *float64
	NDVISD     *float64
	// MeanIndex keeps means of auxiliary indices by index name.
	MeanIndex map[string]*float64

	ValidPxPct       float64
	AreaTotalHa      float64
	AreaValidHa      float64
	AreaBareHa       float64
	AreaSparseHa     float64
	AreaVegHa        float64
	BarePct          float64
	MiningSoilPct    float64
	NonMiningSoilPct float64

	TopoCorrectionApplied bool
	Start                 time.Time
	End                   time.Time
	ImageCount            int
	QAFlag                string
}

// Aggregator computes statistics of zones.
type Aggregator struct {
	// MinValidPct is the valid pixel percentage under which a statistic
	// is flagged as low quality.
	MinValidPct float64
}

// Aggregate summarizes pixels of the composite that have their centers
// inside the zone. Pixels of the zone that are outside of the composite
// grid or masked are ignored. Area sums are clamped so they never exceed
// the geodesic area of the zone.
func (a Aggregator) Aggregate(
	ctx context.Context,
	z zone.Zone,
	comp composite.Composite,
	cl classify.Classified,
) (Stat, error) {
	res := Stat{
		SiteID:                z.Site.ID,
		SiteName:              z.Site.Name,
		ProdStage:             z.Site.ProdStage,
		Commodities:           z.Site.Commodities,
		Year:                  comp.Year,
		BufferM:               z.RadiusM,
		MeanIndex:             make(map[string]*float64, len(auxIndices)),
		AreaTotalHa:           z.AreaHa(),
		TopoCorrectionApplied: comp.TopoCorrected,
		Start:                 comp.Start,
		End:                   comp.End,
		ImageCount:            comp.ObservationCount,
	}
	for _, v := range auxIndices {
		res.MeanIndex[v] = nil
	}

	var ndviVals stats.Float64Data
	auxVals := make(map[string]stats.Float64Data, len(auxIndices))
	ndvi, hasNDVI := comp.Image.Band(spectral.NDVI)
	g := comp.Image.Grid
	cols, rows, inGrid := pixelRange(z, g)

	if hasNDVI && inGrid && !comp.Empty() {
		aux := make(map[string]raster.Band, len(auxIndices))
		for _, name := range auxIndices {
			if b, ok := comp.Image.Band(name); ok {
				aux[name] = b
			}
		}

		for row := rows[0]; row <= rows[1]; row++ {
			if err := ctx.Err(); err != nil {
				return Stat{}, err
			}
			pxHa := g.PixelAreaHa(row)
			for col := cols[0]; col <= cols[1]; col++ {
				if !z.Contains(g.Center(col, row)) {
					continue
				}
				i := g.Index(col, row)
				v, ok := ndvi.At(i)
				if !ok {
					continue
				}
				ndviVals = append(ndviVals, v)
				res.AreaValidHa += pxHa
				switch cl.ClassAt(i) {
				case classify.Bare:
					res.AreaBareHa += pxHa
				case classify.Sparse:
					res.AreaSparseHa += pxHa
				case classify.Vegetated:
					res.AreaVegHa += pxHa
				}
				for name, b := range aux {
					if av, ok := b.At(i); ok {
						auxVals[name] = append(auxVals[name], av)
					}
				}
			}
		}
	}

	res.clampAreas()
	res.setPercentages(a.MinValidPct)
	if comp.Empty() {
		res.QAFlag = FlagLowValidPixels
	}

	if len(ndviVals) > 0 {
		res.MeanNDVI = ptr(stats.Mean(ndviVals))
		res.MedianNDVI = ptr(stats.Median(ndviVals))
		res.NDVISD = ptr(stats.StandardDeviationPopulation(ndviVals))
		for _, name := range auxIndices {
			if vals := auxVals[name]; len(vals) > 0 {
				res.MeanIndex[name] = ptr(stats.Mean(vals))
			}
		}
	}
	return res, nil
}

func (s *Stat) clampAreas() {
	if s.AreaValidHa <= s.AreaTotalHa || s.AreaValidHa == 0 {
		return
	}
	k := s.AreaTotalHa / s.AreaValidHa
	s.AreaValidHa = s.AreaTotalHa
	s.AreaBareHa *= k
	s.AreaSparseHa *= k
	s.AreaVegHa *= k
}

func (s *Stat) setPercentages(minValidPct float64) {
	if s.AreaTotalHa > 0 {
		s.ValidPxPct = min(max(s.AreaValidHa/s.AreaTotalHa*100, 0), 100)
		s.BarePct = s.AreaBareHa / s.AreaTotalHa * 100
		s.NonMiningSoilPct = (s.AreaSparseHa + s.AreaVegHa) / s.AreaTotalHa * 100
	}
	s.MiningSoilPct = s.BarePct
	s.QAFlag = FlagOK
	if s.ValidPxPct < minValidPct {
		s.QAFlag = FlagLowValidPixels
	}
}

func ptr(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}
