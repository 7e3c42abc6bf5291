// Package schema provides database models for the PostgreSQL statistics
// sink.
package schema

import (
	"time"

	"github.com/mrds-es/minedist/pkg/export"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// ZoneYearStat is one exported row of a run.
type ZoneYearStat struct {
	ID int64 `db:"id" ddl:"BIGSERIAL PRIMARY KEY" gorm:"primaryKey;autoIncrement"`

	// RunID ties rows to the run report.
	RunID string `db:"run_id" ddl:"UUID NOT NULL" gorm:"type:uuid;not null"`

	// CreatedAt is the time when the run started.
	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`

	SiteID        string `db:"site_id"         ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
	SiteName      string `db:"site_name"       ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
	ProdStage     string `db:"prod_stage"      ddl:"VARCHAR(100)"          gorm:"type:varchar(100)"`
	Commodities   string `db:"commodities"     ddl:"TEXT"                  gorm:"type:text"`
	Year          int    `db:"year"            ddl:"SMALLINT NOT NULL"     gorm:"type:smallint;not null"`
	BufferM       int    `db:"buffer_m"        ddl:"INTEGER NOT NULL"      gorm:"not null"`
	SiteBufferKey string `db:"site_buffer_key" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
	SiteYearKey   string `db:"site_year_key"   ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`

	MeanNDVI    *float64 `db:"mean_ndvi"    ddl:"DOUBLE PRECISION"`
	MedianNDVI  *float64 `db:"median_ndvi"  ddl:"DOUBLE PRECISION"`
	NDVISD      *float64 `db:"ndvi_sd"      ddl:"DOUBLE PRECISION" gorm:"column:ndvi_sd"`
	MeanNDMI    *float64 `db:"mean_ndmi"    ddl:"DOUBLE PRECISION" gorm:"column:mean_ndmi"`
	MeanNDBI    *float64 `db:"mean_ndbi"    ddl:"DOUBLE PRECISION" gorm:"column:mean_ndbi"`
	MeanNDTI    *float64 `db:"mean_ndti"    ddl:"DOUBLE PRECISION" gorm:"column:mean_ndti"`
	MeanSAVI    *float64 `db:"mean_savi"    ddl:"DOUBLE PRECISION" gorm:"column:mean_savi"`
	MeanBSI     *float64 `db:"mean_bsi"     ddl:"DOUBLE PRECISION" gorm:"column:mean_bsi"`
	MeanIOI     *float64 `db:"mean_ioi"     ddl:"DOUBLE PRECISION" gorm:"column:mean_ioi"`
	MeanCLAY    *float64 `db:"mean_clay"    ddl:"DOUBLE PRECISION" gorm:"column:mean_clay"`
	MeanFERROUS *float64 `db:"mean_ferrous" ddl:"DOUBLE PRECISION" gorm:"column:mean_ferrous"`

	ValidPxPct       float64 `db:"valid_px_pct"        ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	AreaTotalHa      float64 `db:"area_total_ha"       ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	AreaValidHa      float64 `db:"area_valid_ha"       ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	AreaBareHa       float64 `db:"area_bare_ha"        ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	AreaSparseHa     float64 `db:"area_sparse_ha"      ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	AreaVegHa        float64 `db:"area_veg_ha"         ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	BarePct          float64 `db:"bare_pct"            ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	MiningSoilPct    float64 `db:"mining_soil_pct"     ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`
	NonMiningSoilPct float64 `db:"non_mining_soil_pct" ddl:"DOUBLE PRECISION NOT NULL" gorm:"not null"`

	TopoCorrectionApplied bool      `db:"topo_correction_applied" ddl:"BOOLEAN NOT NULL"     gorm:"not null"`
	StartDate             time.Time `db:"start_date"              ddl:"DATE NOT NULL"        gorm:"type:date;not null"`
	EndDate               time.Time `db:"end_date"                ddl:"DATE NOT NULL"        gorm:"type:date;not null"`
	ImageCount            int       `db:"image_count"             ddl:"INTEGER NOT NULL"     gorm:"not null"`
	QAFlag                string    `db:"qa_flag"                 ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null"`
}

// NewZoneYearStat converts an exported row to a database model. Dates
// that cannot be parsed stay zero.
func NewZoneYearStat(runID string, created time.Time, r export.Row) ZoneYearStat {
	start, _ := time.Parse(export.DateFormat, r.StartDate)
	end, _ := time.Parse(export.DateFormat, r.EndDate)
	return ZoneYearStat{
		RunID:                 runID,
		CreatedAt:             created,
		SiteID:                r.SiteID,
		SiteName:              r.SiteName,
		ProdStage:             r.ProdStage,
		Commodities:           r.Commodities,
		Year:                  r.Year,
		BufferM:               r.BufferM,
		SiteBufferKey:         r.SiteBufferKey,
		SiteYearKey:           r.SiteYearKey,
		MeanNDVI:              r.MeanNDVI,
		MedianNDVI:            r.MedianNDVI,
		NDVISD:                r.NDVISD,
		MeanNDMI:              r.MeanNDMI,
		MeanNDBI:              r.MeanNDBI,
		MeanNDTI:              r.MeanNDTI,
		MeanSAVI:              r.MeanSAVI,
		MeanBSI:               r.MeanBSI,
		MeanIOI:               r.MeanIOI,
		MeanCLAY:              r.MeanCLAY,
		MeanFERROUS:           r.MeanFERROUS,
		ValidPxPct:            r.ValidPxPct,
		AreaTotalHa:           r.AreaTotalHa,
		AreaValidHa:           r.AreaValidHa,
		AreaBareHa:            r.AreaBareHa,
		AreaSparseHa:          r.AreaSparseHa,
		AreaVegHa:             r.AreaVegHa,
		BarePct:               r.BarePct,
		MiningSoilPct:         r.MiningSoilPct,
		NonMiningSoilPct:      r.NonMiningSoilPct,
		TopoCorrectionApplied: r.TopoCorrectionApplied,
		StartDate:             start,
		EndDate:               end,
		ImageCount:            r.ImageCount,
		QAFlag:                r.QAFlag,
	}
}
