package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	ConfigValidationError
	ConfigThresholdsError
	ConfigScopeError

	// Catalog errors
	CatalogOpenError
	CatalogSitesError
	CatalogScenesError
	CatalogDEMError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBCopyError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError

	// Optimize errors
	OptimizeDedupError
	OptimizeDropRunError
	OptimizeVacuumError

	// Pipeline errors
	PipelineNoSitesError
	PipelineNoYearsError
	PipelineComposeError
	PipelineUnitError

	// Export errors
	ExportCSVError
	ExportGeoJSONError
	ExportReportError

	// Trend errors
	TrendInputError
)
