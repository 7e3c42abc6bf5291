package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))
}

// Columns returns database column names of a model in field order,
// skipping columns listed in skip.
func Columns(model any, skip ...string) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var res []string
outer:
	for i := 0; i < t.NumField(); i++ {
		col := t.Field(i).Tag.Get("db")
		if col == "" {
			continue
		}
		for _, s := range skip {
			if s == col {
				continue outer
			}
		}
		res = append(res, col)
	}
	return res
}

func (z ZoneYearStat) TableDDL() string {
	return generateDDL(z, z.TableName())
}

func (z ZoneYearStat) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_zone_year_stats_run ON zone_year_stats(run_id);",
		"CREATE INDEX idx_zone_year_stats_site ON zone_year_stats(site_id, buffer_m, year);",
	}
}

func (z ZoneYearStat) TableName() string {
	return "zone_year_stats"
}

// Values returns column values in the order of Columns(z, "id").
func (z ZoneYearStat) Values() []any {
	return []any{
		z.RunID, z.CreatedAt, z.SiteID, z.SiteName, z.ProdStage,
		z.Commodities, z.Year, z.BufferM, z.SiteBufferKey, z.SiteYearKey,
		z.MeanNDVI, z.MedianNDVI, z.NDVISD, z.MeanNDMI, z.MeanNDBI,
		z.MeanNDTI, z.MeanSAVI, z.MeanBSI, z.MeanIOI, z.MeanCLAY,
		z.MeanFERROUS, z.ValidPxPct, z.AreaTotalHa, z.AreaValidHa,
		z.AreaBareHa, z.AreaSparseHa, z.AreaVegHa, z.BarePct,
		z.MiningSoilPct, z.NonMiningSoilPct, z.TopoCorrectionApplied,
		z.StartDate, z.EndDate, z.ImageCount, z.QAFlag,
	}
}
