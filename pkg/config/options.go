package config

import (
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptCatalogSitesPath sets the path to the sites CSV or SQLite file.
func OptCatalogSitesPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Sites Path", s) {
			c.Catalog.SitesPath = s
		}
	}
}

// OptCatalogScenesPath sets the path to the scenes SQLite file.
func OptCatalogScenesPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Scenes Path", s) {
			c.Catalog.ScenesPath = s
		}
	}
}

// OptCatalogXField sets the longitude column name.
func OptCatalogXField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog X Field", s) {
			c.Catalog.XField = s
		}
	}
}

// OptCatalogYField sets the latitude column name.
func OptCatalogYField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Y Field", s) {
			c.Catalog.YField = s
		}
	}
}

// OptCatalogNameField sets the site name column name.
func OptCatalogNameField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Name Field", s) {
			c.Catalog.NameField = s
		}
	}
}

// OptAnalysisStartYear sets the first year of the series.
func OptAnalysisStartYear(i int) Option {
	return func(c *Config) {
		if isValidYear("Analysis Start Year", i) {
			c.Analysis.StartYear = i
		}
	}
}

// OptAnalysisEndYear sets the last year of the series.
func OptAnalysisEndYear(i int) Option {
	return func(c *Config) {
		if isValidYear("Analysis End Year", i) {
			c.Analysis.EndYear = i
		}
	}
}

// OptAnalysisExportStartYear sets the first exported year.
func OptAnalysisExportStartYear(i int) Option {
	return func(c *Config) {
		if isValidYear("Export Start Year", i) {
			c.Analysis.ExportStartYear = i
		}
	}
}

// OptAnalysisExportEndYear sets the last exported year.
func OptAnalysisExportEndYear(i int) Option {
	return func(c *Config) {
		if isValidYear("Export End Year", i) {
			c.Analysis.ExportEndYear = i
		}
	}
}

// OptAnalysisSeasonStartMonth sets the first month of the season.
func OptAnalysisSeasonStartMonth(i int) Option {
	return func(c *Config) {
		if isValidMonth("Season Start Month", i) {
			c.Analysis.SeasonStartMonth = i
		}
	}
}

// OptAnalysisSeasonEndMonth sets the last month of the season.
func OptAnalysisSeasonEndMonth(i int) Option {
	return func(c *Config) {
		if isValidMonth("Season End Month", i) {
			c.Analysis.SeasonEndMonth = i
		}
	}
}

// OptAnalysisCloudCoverMax sets the cloud cover limit in percent.
func OptAnalysisCloudCoverMax(f float64) Option {
	return func(c *Config) {
		if isValidPct("Cloud Cover Max", f) && f > 0 {
			c.Analysis.CloudCoverMax = f
		}
	}
}

// OptAnalysisMaxImagesPerSeason caps scenes per season. Zero removes
// the cap.
func OptAnalysisMaxImagesPerSeason(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Max Images Per Season", float64(i)) {
			c.Analysis.MaxImagesPerSeason = i
		}
	}
}

// OptAnalysisIncludeYearsWithNoImages sets if empty composites produce
// statistics.
func OptAnalysisIncludeYearsWithNoImages(b bool) Option {
	return func(c *Config) {
		c.Analysis.IncludeYearsWithNoImages = b
	}
}

// OptAnalysisScaleM sets the composite pixel size in meters.
func OptAnalysisScaleM(f float64) Option {
	return func(c *Config) {
		if isValidPositive("Scale", f) {
			c.Analysis.ScaleM = f
		}
	}
}

// OptAnalysisSAVIL sets the SAVI soil brightness factor.
func OptAnalysisSAVIL(f float64) Option {
	return func(c *Config) {
		if isValidNonNegative("SAVI L", f) {
			c.Analysis.SAVIL = f
		}
	}
}

// OptSitesBuffersM sets zone radii in meters. Duplicates are removed.
func OptSitesBuffersM(ii []int) Option {
	return func(c *Config) {
		if len(ii) == 0 {
			gn.Warn("<em>Buffers</em> cannot be empty, ignoring")
			return
		}
		for _, v := range ii {
			if !isValidInt("Buffer", v) {
				return
			}
		}
		res := slices.Clone(ii)
		slices.Sort(res)
		c.Sites.BuffersM = slices.Compact(res)
	}
}

// OptSitesTargetNames limits sites to given names.
func OptSitesTargetNames(ss []string) Option {
	return func(c *Config) {
		var res []string
		for _, v := range ss {
			v = strings.TrimSpace(v)
			if v != "" {
				res = append(res, v)
			}
		}
		c.Sites.TargetNames = res
	}
}

// OptSitesBBox sets the study area as west, south, east, north.
func OptSitesBBox(ff []float64) Option {
	return func(c *Config) {
		if len(ff) == 0 {
			c.Sites.BBox = nil
			return
		}
		if len(ff) != 4 || ff[0] >= ff[2] || ff[1] >= ff[3] {
			gn.Warn("<em>BBox</em> must be west,south,east,north, ignoring %v", ff)
			return
		}
		c.Sites.BBox = slices.Clone(ff)
	}
}

// OptSitesBufferSegments sets the number of buffer polygon vertices.
func OptSitesBufferSegments(i int) Option {
	return func(c *Config) {
		if i < 8 {
			gn.Warn("<em>Buffer Segments</em> must be 8 or more, ignoring %d", i)
			return
		}
		c.Sites.BufferSegments = i
	}
}

// OptScopeSiteID runs only one site by its id.
// Runtime-only field - not in ToOptions().
func OptScopeSiteID(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Site ID", s) {
			c.Scope.SiteID = s
		}
	}
}

// OptScopeSiteName runs only sites with the name.
// Runtime-only field - not in ToOptions().
func OptScopeSiteName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Site Name", s) {
			c.Scope.SiteName = s
		}
	}
}

// OptScopePartitionCount sets the number of partitions.
func OptScopePartitionCount(i int) Option {
	return func(c *Config) {
		if isValidInt("Partition Count", i) {
			c.Scope.PartitionCount = i
		}
	}
}

// OptScopePartitionIndex sets the partition to run.
func OptScopePartitionIndex(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Partition Index", float64(i)) {
			c.Scope.PartitionIndex = i
		}
	}
}

// OptScopeSeed sets the partition seed.
func OptScopeSeed(i int64) Option {
	return func(c *Config) {
		c.Scope.Seed = i
	}
}

// OptClassesNDVIBareMax sets the upper NDVI limit of bare ground.
func OptClassesNDVIBareMax(f float64) Option {
	return func(c *Config) {
		if isValidNDVI("NDVI Bare Max", f) {
			c.Classes.NDVIBareMax = f
		}
	}
}

// OptClassesNDVISparseMax sets the upper NDVI limit of sparse vegetation.
func OptClassesNDVISparseMax(f float64) Option {
	return func(c *Config) {
		if isValidNDVI("NDVI Sparse Max", f) {
			c.Classes.NDVISparseMax = f
		}
	}
}

// OptClassesMinValidPixelPct sets the quality threshold.
func OptClassesMinValidPixelPct(f float64) Option {
	return func(c *Config) {
		if isValidPct("Min Valid Pixel Pct", f) {
			c.Classes.MinValidPixelPct = f
		}
	}
}

// OptTopoEnabled turns the illumination correction on or off.
func OptTopoEnabled(b bool) Option {
	return func(c *Config) {
		c.Topo.Enabled = b
	}
}

// OptTopoSlopeMinDeg sets the smallest corrected slope.
func OptTopoSlopeMinDeg(f float64) Option {
	return func(c *Config) {
		if isValidNonNegative("Topo Slope Min", f) && f < 90 {
			c.Topo.SlopeMinDeg = f
		}
	}
}

// OptTopoMinIlluminationCosine sets the floor of the illumination cosine.
func OptTopoMinIlluminationCosine(f float64) Option {
	return func(c *Config) {
		if isValidPositive("Min Illumination Cosine", f) && f <= 1 {
			c.Topo.MinIlluminationCosine = f
		}
	}
}

// OptExportFolder sets the output directory.
func OptExportFolder(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Export Folder", s) {
			c.Export.Folder = s
		}
	}
}

// OptExportPrefix sets the prefix of output file names.
func OptExportPrefix(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Export Prefix", s) {
			c.Export.Prefix = s
		}
	}
}

// OptExportPerYear sets if a table per year is written.
func OptExportPerYear(b bool) Option {
	return func(c *Config) {
		c.Export.PerYear = b
	}
}

// OptExportSeries sets if a combined table is written.
func OptExportSeries(b bool) Option {
	return func(c *Config) {
		c.Export.Series = b
	}
}

// OptExportZonesGeoJSON sets if zone polygons are written.
func OptExportZonesGeoJSON(b bool) Option {
	return func(c *Config) {
		c.Export.ZonesGeoJSON = b
	}
}

// OptExportPostgres sets if rows are copied to PostgreSQL.
func OptExportPostgres(b bool) Option {
	return func(c *Config) {
		c.Export.Postgres = b
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per COPY batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptUnitTimeoutSec limits computation of one zone-year unit in seconds.
// Zero removes the limit.
func OptUnitTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Unit Timeout", float64(i)) {
			c.UnitTimeoutSec = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
