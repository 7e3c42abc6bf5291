// Package config provides configuration management for minedist.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > .env > config.yaml >
// defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid
// - All mutations go through Option functions
// - Invalid options are rejected with gn.Warn(), config keeps its old value
// - Cross-field constraints are checked by Validate() before a run
// - ToOptions() converts persistent fields (those in config.yaml)
//
// # Runtime-only fields
//
// Scope.SiteID, Scope.SiteName and HomeDir are set by CLI only.
//
// # Environment Variables
//
// Use MINEDIST_ prefix with underscores for nesting:
//
//	MINEDIST_ANALYSIS_START_YEAR=2000
//	MINEDIST_CATALOG_SCENES_PATH=/data/scenes.sqlite
//	MINEDIST_DATABASE_HOST=localhost
//	MINEDIST_LOG_LEVEL=debug
//	MINEDIST_JOBS_NUMBER=8
package config

import (
	"runtime"
	"time"
)

// Config represents the complete minedist configuration.
type Config struct {
	// Catalog points to site and scene data sources.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// Analysis sets years, season and compositing parameters.
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Sites sets buffers and site filters.
	Sites SitesConfig `mapstructure:"sites" yaml:"sites"`

	// Scope selects a subset of sites for a run.
	Scope ScopeConfig `mapstructure:"scope" yaml:"scope"`

	// Classes sets NDVI class limits and the quality threshold.
	Classes ClassesConfig `mapstructure:"classes" yaml:"classes"`

	// Topo configures the illumination correction.
	Topo TopoConfig `mapstructure:"topo" yaml:"topo"`

	// Export sets output files and sinks.
	Export ExportConfig `mapstructure:"export" yaml:"export"`

	// Database contains PostgreSQL connection settings for the optional
	// statistics sink.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for zone statistics.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number" validate:"gte=1"`

	// UnitTimeoutSec limits computation of one zone-year unit.
	// Zero means no limit.
	UnitTimeoutSec int `mapstructure:"unit_timeout_sec" yaml:"unit_timeout_sec" validate:"gte=0"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `yaml:"-"`
}

// CatalogConfig describes where sites and scenes come from.
type CatalogConfig struct {
	// SitesPath is a CSV file or an SQLite file with a 'mrds' table.
	SitesPath string `mapstructure:"sites_path" yaml:"sites_path"`

	// ScenesPath is an SQLite file with 'scenes', 'scene_bands' and
	// optional 'dem' tables.
	ScenesPath string `mapstructure:"scenes_path" yaml:"scenes_path"`

	// XField, YField and NameField are column names of longitude,
	// latitude and site name in the sites table.
	XField    string `mapstructure:"x_field"    yaml:"x_field"`
	YField    string `mapstructure:"y_field"    yaml:"y_field"`
	NameField string `mapstructure:"name_field" yaml:"name_field"`
}

// AnalysisConfig sets the time series and composite parameters.
type AnalysisConfig struct {
	StartYear int `mapstructure:"start_year" yaml:"start_year" validate:"gte=1984"`
	EndYear   int `mapstructure:"end_year"   yaml:"end_year"   validate:"gtefield=StartYear"`

	// ExportStartYear and ExportEndYear narrow years that get exported.
	ExportStartYear int `mapstructure:"export_start_year" yaml:"export_start_year"`
	ExportEndYear   int `mapstructure:"export_end_year"   yaml:"export_end_year" validate:"gtefield=ExportStartYear"`

	// SeasonStartMonth and SeasonEndMonth are inclusive. When start is
	// after end, the season crosses the new year.
	SeasonStartMonth int `mapstructure:"season_start_month" yaml:"season_start_month" validate:"min=1,max=12"`
	SeasonEndMonth   int `mapstructure:"season_end_month"   yaml:"season_end_month"   validate:"min=1,max=12"`

	// CloudCoverMax keeps scenes with cloud cover below this percent.
	CloudCoverMax float64 `mapstructure:"cloud_cover_max" yaml:"cloud_cover_max" validate:"gt=0,lte=100"`

	// MaxImagesPerSeason keeps only the least cloudy scenes, 0 for no cap.
	MaxImagesPerSeason int `mapstructure:"max_images_per_season" yaml:"max_images_per_season" validate:"gte=0"`

	// IncludeYearsWithNoImages emits statistics for empty composites.
	IncludeYearsWithNoImages bool `mapstructure:"include_years_with_no_images" yaml:"include_years_with_no_images"`

	// ScaleM is the pixel size of composites in meters.
	ScaleM float64 `mapstructure:"scale_m" yaml:"scale_m" validate:"gt=0"`

	// SAVIL is the soil brightness factor of SAVI.
	SAVIL float64 `mapstructure:"savi_l" yaml:"savi_l" validate:"gte=0"`
}

// SitesConfig sets buffer radii and site filters.
type SitesConfig struct {
	// BuffersM are radii of zones in meters.
	BuffersM []int `mapstructure:"buffers_m" yaml:"buffers_m" validate:"min=1,dive,gt=0"`

	// TargetNames limits sites to these names when not empty.
	TargetNames []string `mapstructure:"target_names" yaml:"target_names"`

	// BBox is the study area as [west, south, east, north]. Empty means
	// no limit.
	BBox []float64 `mapstructure:"bbox" yaml:"bbox" validate:"omitempty,len=4"`

	// BufferSegments is the number of vertices of a buffer polygon.
	BufferSegments int `mapstructure:"buffer_segments" yaml:"buffer_segments" validate:"gte=8"`
}

// ScopeConfig selects sites for a run.
type ScopeConfig struct {
	// SiteID runs only the site with this id. Runtime-only.
	SiteID string `mapstructure:"site_id" yaml:"-"`

	// SiteName runs only sites with this name. Runtime-only.
	SiteName string `mapstructure:"site_name" yaml:"-"`

	// PartitionCount splits sites into this many seeded partitions.
	// 1 means all sites.
	PartitionCount int `mapstructure:"partition_count" yaml:"partition_count" validate:"gte=1"`

	// PartitionIndex is the zero-based partition to run.
	PartitionIndex int `mapstructure:"partition_index" yaml:"partition_index" validate:"gte=0,ltfield=PartitionCount"`

	// Seed of the partition random values.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// ClassesConfig sets NDVI class limits.
type ClassesConfig struct {
	// NDVIBareMax is the exclusive upper NDVI limit of bare ground.
	NDVIBareMax float64 `mapstructure:"ndvi_bare_max" yaml:"ndvi_bare_max" validate:"ltfield=NDVISparseMax"`

	// NDVISparseMax is the exclusive upper NDVI limit of sparse vegetation.
	NDVISparseMax float64 `mapstructure:"ndvi_sparse_max" yaml:"ndvi_sparse_max"`

	// MinValidPixelPct flags statistics with less valid pixels.
	MinValidPixelPct float64 `mapstructure:"min_valid_pixel_pct" yaml:"min_valid_pixel_pct" validate:"gte=0,lte=100"`
}

// TopoConfig configures the illumination correction.
type TopoConfig struct {
	Enabled               bool    `mapstructure:"enabled"                 yaml:"enabled"`
	SlopeMinDeg           float64 `mapstructure:"slope_min_deg"           yaml:"slope_min_deg"           validate:"gte=0,lt=90"`
	MinIlluminationCosine float64 `mapstructure:"min_illumination_cosine" yaml:"min_illumination_cosine" validate:"gt=0,lte=1"`
}

// ExportConfig sets outputs.
type ExportConfig struct {
	// Folder is where output files are written.
	Folder string `mapstructure:"folder" yaml:"folder"`

	// Prefix starts every output file name.
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// PerYear writes one table per year.
	PerYear bool `mapstructure:"per_year" yaml:"per_year"`

	// Series writes one table for the whole year range.
	Series bool `mapstructure:"series" yaml:"series"`

	// ZonesGeoJSON writes zone polygons next to tables.
	ZonesGeoJSON bool `mapstructure:"zones_geojson" yaml:"zones_geojson"`

	// Postgres copies rows to the 'zone_year_stats' table.
	Postgres bool `mapstructure:"postgres" yaml:"postgres"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"     yaml:"host"`
	Port     int    `mapstructure:"port"     yaml:"port"`
	User     string `mapstructure:"user"     yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows per COPY batch.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// LastFullYear returns the previous calendar year.
func LastFullYear() int {
	return time.Now().Year() - 1
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
func New() *Config {
	last := LastFullYear()
	res := &Config{
		Catalog: CatalogConfig{
			SitesPath:  "mrds.csv",
			ScenesPath: "scenes.sqlite",
			XField:     "X",
			YField:     "Y",
			NameField:  "Name",
		},
		Analysis: AnalysisConfig{
			StartYear:          1984,
			EndYear:            last,
			ExportStartYear:    1984,
			ExportEndYear:      last,
			SeasonStartMonth:   11,
			SeasonEndMonth:     4,
			CloudCoverMax:      70,
			MaxImagesPerSeason: 15,
			ScaleM:             60,
			SAVIL:              0.5,
		},
		Sites: SitesConfig{
			BuffersM:       []int{1000, 2000},
			BufferSegments: 64,
		},
		Scope: ScopeConfig{
			PartitionCount: 1,
			Seed:           1337,
		},
		Classes: ClassesConfig{
			NDVIBareMax:      0.1,
			NDVISparseMax:    0.2,
			MinValidPixelPct: 20,
		},
		Topo: TopoConfig{
			SlopeMinDeg:           5,
			MinIlluminationCosine: 0.1,
		},
		Export: ExportConfig{
			Folder: "exports",
			Prefix: "mrds_mine_disturbance_long",
			Series: true,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "minedist",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber:     runtime.NumCPU(),
		UnitTimeoutSec: 300,
	}
	return res
}
