package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Scope.SiteID, Scope.SiteName).
func (c *Config) ToOptions() []Option {
	var res []Option
	addStr := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}
	addInt := func(i int, fn func(int) Option) {
		if i > 0 {
			res = append(res, fn(i))
		}
	}
	addFloat := func(f float64, fn func(float64) Option) {
		if f != 0 {
			res = append(res, fn(f))
		}
	}

	addStr(c.Catalog.SitesPath, OptCatalogSitesPath)
	addStr(c.Catalog.ScenesPath, OptCatalogScenesPath)
	addStr(c.Catalog.XField, OptCatalogXField)
	addStr(c.Catalog.YField, OptCatalogYField)
	addStr(c.Catalog.NameField, OptCatalogNameField)

	addInt(c.Analysis.StartYear, OptAnalysisStartYear)
	addInt(c.Analysis.EndYear, OptAnalysisEndYear)
	addInt(c.Analysis.ExportStartYear, OptAnalysisExportStartYear)
	addInt(c.Analysis.ExportEndYear, OptAnalysisExportEndYear)
	addInt(c.Analysis.SeasonStartMonth, OptAnalysisSeasonStartMonth)
	addInt(c.Analysis.SeasonEndMonth, OptAnalysisSeasonEndMonth)
	addFloat(c.Analysis.CloudCoverMax, OptAnalysisCloudCoverMax)
	res = append(res,
		OptAnalysisMaxImagesPerSeason(c.Analysis.MaxImagesPerSeason),
		OptAnalysisIncludeYearsWithNoImages(c.Analysis.IncludeYearsWithNoImages),
	)
	addFloat(c.Analysis.ScaleM, OptAnalysisScaleM)
	addFloat(c.Analysis.SAVIL, OptAnalysisSAVIL)

	if len(c.Sites.BuffersM) > 0 {
		res = append(res, OptSitesBuffersM(c.Sites.BuffersM))
	}
	if len(c.Sites.TargetNames) > 0 {
		res = append(res, OptSitesTargetNames(c.Sites.TargetNames))
	}
	if len(c.Sites.BBox) > 0 {
		res = append(res, OptSitesBBox(c.Sites.BBox))
	}
	addInt(c.Sites.BufferSegments, OptSitesBufferSegments)

	addInt(c.Scope.PartitionCount, OptScopePartitionCount)
	res = append(res, OptScopePartitionIndex(c.Scope.PartitionIndex))
	if c.Scope.Seed != 0 {
		res = append(res, OptScopeSeed(c.Scope.Seed))
	}

	res = append(res,
		OptClassesNDVIBareMax(c.Classes.NDVIBareMax),
		OptClassesNDVISparseMax(c.Classes.NDVISparseMax),
	)
	res = append(res, OptClassesMinValidPixelPct(c.Classes.MinValidPixelPct))

	res = append(res, OptTopoEnabled(c.Topo.Enabled))
	res = append(res, OptTopoSlopeMinDeg(c.Topo.SlopeMinDeg))
	addFloat(c.Topo.MinIlluminationCosine, OptTopoMinIlluminationCosine)

	addStr(c.Export.Folder, OptExportFolder)
	addStr(c.Export.Prefix, OptExportPrefix)
	res = append(res,
		OptExportPerYear(c.Export.PerYear),
		OptExportSeries(c.Export.Series),
		OptExportZonesGeoJSON(c.Export.ZonesGeoJSON),
		OptExportPostgres(c.Export.Postgres),
	)

	addStr(c.Database.Host, OptDatabaseHost)
	addInt(c.Database.Port, OptDatabasePort)
	addStr(c.Database.User, OptDatabaseUser)
	addStr(c.Database.Password, OptDatabasePassword)
	addStr(c.Database.Database, OptDatabaseDatabase)
	addStr(c.Database.SSLMode, OptDatabaseSSLMode)
	addInt(c.Database.BatchSize, OptDatabaseBatchSize)

	addStr(c.Log.Format, OptLogFormat)
	addStr(c.Log.Level, OptLogLevel)
	addStr(c.Log.Destination, OptLogDestination)

	addInt(c.JobsNumber, OptJobsNumber)
	res = append(res, OptUnitTimeoutSec(c.UnitTimeoutSec))
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidPositive(name string, f float64) bool {
	res := f > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %g", name, f)
	}
	return res
}

func isValidNonNegative(name string, f float64) bool {
	res := f >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %g", name, f)
	}
	return res
}

func isValidPct(name string, f float64) bool {
	res := f >= 0 && f <= 100
	if !res {
		gn.Warn("<em>%s</em> has to be between 0 and 100, ignoring %g", name, f)
	}
	return res
}

func isValidNDVI(name string, f float64) bool {
	res := f >= -1 && f <= 1
	if !res {
		gn.Warn("<em>%s</em> has to be between -1 and 1, ignoring %g", name, f)
	}
	return res
}

func isValidYear(name string, i int) bool {
	res := i >= 1984 && i <= 2100
	if !res {
		gn.Warn("<em>%s</em> has to be between 1984 and 2100, ignoring %d", name, i)
	}
	return res
}

func isValidMonth(name string, i int) bool {
	res := i >= 1 && i <= 12
	if !res {
		gn.Warn("<em>%s</em> has to be between 1 and 12, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
