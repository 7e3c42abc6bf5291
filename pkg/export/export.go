// Package export assembles zone-year statistics into flat table rows.
package export

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/mrds-es/minedist/pkg/spectral"
	"github.com/mrds-es/minedist/pkg/zonal"
)

// DateFormat is the layout of window dates in rows.
const DateFormat = "2006-01-02"

// Row is one line of the exported table. Nil pointers are written as
// empty cells.
type Row struct {
	SiteID                string   `csv:"site_id"                 json:"site_id"`
	SiteName              string   `csv:"site_name"               json:"site_name"`
	ProdStage             string   `csv:"prod_stage"              json:"prod_stage"`
	Commodities           string   `csv:"commodities"             json:"commodities"`
	Year                  int      `csv:"year"                    json:"year"`
	BufferM               int      `csv:"buffer_m"                json:"buffer_m"`
	SiteBufferKey         string   `csv:"site_buffer_key"         json:"site_buffer_key"`
	SiteYearKey           string   `csv:"site_year_key"           json:"site_year_key"`
	MeanNDVI              *float64 `csv:"mean_ndvi"               json:"mean_ndvi"`
	MedianNDVI            *float64 `csv:"median_ndvi"             json:"median_ndvi"`
	NDVISD                *float64 `csv:"ndvi_sd"                 json:"ndvi_sd"`
	MeanNDMI              *float64 `csv:"mean_ndmi"               json:"mean_ndmi"`
	MeanNDBI              *float64 `csv:"mean_ndbi"               json:"mean_ndbi"`
	MeanNDTI              *float64 `csv:"mean_ndti"               json:"mean_ndti"`
	MeanSAVI              *float64 `csv:"mean_savi"               json:"mean_savi"`
	MeanBSI               *float64 `csv:"mean_bsi"                json:"mean_bsi"`
	MeanIOI               *float64 `csv:"mean_ioi"                json:"mean_ioi"`
	MeanCLAY              *float64 `csv:"mean_clay"               json:"mean_clay"`
	MeanFERROUS           *float64 `csv:"mean_ferrous"            json:"mean_ferrous"`
	ValidPxPct            float64  `csv:"valid_px_pct"            json:"valid_px_pct"`
	AreaTotalHa           float64  `csv:"area_total_ha"           json:"area_total_ha"`
	AreaValidHa           float64  `csv:"area_valid_ha"           json:"area_valid_ha"`
	AreaBareHa            float64  `csv:"area_bare_ha"            json:"area_bare_ha"`
	AreaSparseHa          float64  `csv:"area_sparse_ha"          json:"area_sparse_ha"`
	AreaVegHa             float64  `csv:"area_veg_ha"             json:"area_veg_ha"`
	BarePct               float64  `csv:"bare_pct"                json:"bare_pct"`
	MiningSoilPct         float64  `csv:"mining_soil_pct"         json:"mining_soil_pct"`
	NonMiningSoilPct      float64  `csv:"non_mining_soil_pct"     json:"non_mining_soil_pct"`
	TopoCorrectionApplied bool     `csv:"topo_correction_applied" json:"topo_correction_applied"`
	StartDate             string   `csv:"start_date"              json:"start_date"`
	EndDate               string   `csv:"end_date"                json:"end_date"`
	ImageCount            int      `csv:"image_count"             json:"image_count"`
	QAFlag                string   `csv:"qa_flag"                 json:"qa_flag"`
}

// NewRow converts a statistic to a row and adds join keys.
func NewRow(s zonal.Stat) Row {
	return Row{
		SiteID:                s.SiteID,
		SiteName:              s.SiteName,
		ProdStage:             s.ProdStage,
		Commodities:           s.Commodities,
		Year:                  s.Year,
		BufferM:               s.BufferM,
		SiteBufferKey:         s.SiteID + "_" + strconv.Itoa(s.BufferM),
		SiteYearKey:           s.SiteID + "_" + strconv.Itoa(s.Year),
		MeanNDVI:              s.MeanNDVI,
		MedianNDVI:            s.MedianNDVI,
		NDVISD:                s.NDVISD,
		MeanNDMI:              s.MeanIndex[spectral.NDMI],
		MeanNDBI:              s.MeanIndex[spectral.NDBI],
		MeanNDTI:              s.MeanIndex[spectral.NDTI],
		MeanSAVI:              s.MeanIndex[spectral.SAVI],
		MeanBSI:               s.MeanIndex[spectral.BSI],
		MeanIOI:               s.MeanIndex[spectral.IOI],
		MeanCLAY:              s.MeanIndex[spectral.CLAY],
		MeanFERROUS:           s.MeanIndex[spectral.FERROUS],
		ValidPxPct:            s.ValidPxPct,
		AreaTotalHa:           s.AreaTotalHa,
		AreaValidHa:           s.AreaValidHa,
		AreaBareHa:            s.AreaBareHa,
		AreaSparseHa:          s.AreaSparseHa,
		AreaVegHa:             s.AreaVegHa,
		BarePct:               s.BarePct,
		MiningSoilPct:         s.MiningSoilPct,
		NonMiningSoilPct:      s.NonMiningSoilPct,
		TopoCorrectionApplied: s.TopoCorrectionApplied,
		StartDate:             s.Start.Format(DateFormat),
		EndDate:               s.End.Format(DateFormat),
		ImageCount:            s.ImageCount,
		QAFlag:                s.QAFlag,
	}
}

// Sort orders rows by site, buffer and year, so every series is
// chronological.
func Sort(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(a.SiteID, b.SiteID),
			cmp.Compare(a.BufferM, b.BufferM),
			cmp.Compare(a.Year, b.Year),
		)
	})
}

// ByYear groups rows by year. Years are returned in ascending order.
func ByYear(rows []Row) ([]int, map[int][]Row) {
	res := make(map[int][]Row)
	for _, v := range rows {
		res[v.Year] = append(res[v.Year], v)
	}
	years := make([]int, 0, len(res))
	for k := range res {
		years = append(years, k)
	}
	slices.Sort(years)
	return years, res
}

// Years returns the intersection of analysis and export year ranges.
// The result is empty when ranges do not overlap.
func Years(start, end, exportStart, exportEnd int) []int {
	lo := max(start, exportStart)
	hi := min(end, exportEnd)
	var res []int
	for y := lo; y <= hi; y++ {
		res = append(res, y)
	}
	return res
}

// SeriesFileName returns the name of a combined table for a year range.
func SeriesFileName(prefix, tag string, start, end int) string {
	return fmt.Sprintf("%s_%s_%d_%d.csv", prefix, tag, start, end)
}

// YearFileName returns the name of a table of one year.
func YearFileName(prefix, tag string, year int) string {
	return fmt.Sprintf("%s_%s_%d.csv", prefix, tag, year)
}
