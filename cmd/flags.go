package cmd

import (
	"fmt"
	"os"

	minedist "github.com/mrds-es/minedist/pkg"
	"github.com/mrds-es/minedist/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", minedist.Version, minedist.Build)
		os.Exit(0)
	}
}

// scopeFlags select sites of a run.
type scopeFlags struct {
	siteID         string
	siteName       string
	partitionCount int
	partitionIndex int
	buffers        []int
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.siteID, "site-id", "i", "",
		"process only the site with this id")
	fs.StringVarP(&f.siteName, "site-name", "n", "",
		"process only sites with this name")
	fs.IntVar(&f.partitionCount, "partition-count", 1,
		"split sites into this many partitions")
	fs.IntVar(&f.partitionIndex, "partition-index", 0,
		"zero-based partition to process")
	fs.IntSliceVarP(&f.buffers, "buffers", "b", nil,
		"buffer radii in meters, e.g. 1000,2000")
}

func (f *scopeFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()
	if fs.Changed("site-id") {
		res = append(res, config.OptScopeSiteID(f.siteID))
	}
	if fs.Changed("site-name") {
		res = append(res, config.OptScopeSiteName(f.siteName))
	}
	if fs.Changed("partition-count") {
		res = append(res, config.OptScopePartitionCount(f.partitionCount))
	}
	if fs.Changed("partition-index") {
		res = append(res, config.OptScopePartitionIndex(f.partitionIndex))
	}
	if fs.Changed("buffers") {
		res = append(res, config.OptSitesBuffersM(f.buffers))
	}
	return res
}

// runFlags override analysis and export settings.
type runFlags struct {
	scopeFlags
	startYear       int
	endYear         int
	exportStartYear int
	exportEndYear   int
	jobs            int
	output          string
	perYear         bool
	postgres        bool
	topo            bool
	includeEmpty    bool
	zones           bool
	quiet           bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	f.scopeFlags.register(cmd)
	fs := cmd.Flags()
	fs.IntVarP(&f.startYear, "start-year", "s", 0,
		"first year of the analysis")
	fs.IntVarP(&f.endYear, "end-year", "e", 0,
		"last year of the analysis")
	fs.IntVar(&f.exportStartYear, "export-start-year", 0,
		"first exported year")
	fs.IntVar(&f.exportEndYear, "export-end-year", 0,
		"last exported year")
	fs.IntVarP(&f.jobs, "jobs", "j", 0,
		"number of concurrent workers")
	fs.StringVarP(&f.output, "output", "o", "",
		"folder for exported files")
	fs.BoolVarP(&f.perYear, "per-year", "y", false,
		"write one table per year")
	fs.BoolVarP(&f.postgres, "postgres", "p", false,
		"copy rows to PostgreSQL")
	fs.BoolVarP(&f.topo, "topo", "t", false,
		"apply illumination correction")
	fs.BoolVar(&f.includeEmpty, "include-empty", false,
		"emit rows for seasons without images")
	fs.BoolVarP(&f.zones, "zones", "z", false,
		"write zone polygons as GeoJSON")
	fs.BoolVarP(&f.quiet, "quiet", "q", false,
		"do not show progress bar")
}

func (f *runFlags) options(cmd *cobra.Command) []config.Option {
	res := f.scopeFlags.options(cmd)
	fs := cmd.Flags()
	if fs.Changed("start-year") {
		res = append(res, config.OptAnalysisStartYear(f.startYear))
	}
	if fs.Changed("end-year") {
		res = append(res, config.OptAnalysisEndYear(f.endYear))
	}
	if fs.Changed("export-start-year") {
		res = append(res, config.OptAnalysisExportStartYear(f.exportStartYear))
	}
	if fs.Changed("export-end-year") {
		res = append(res, config.OptAnalysisExportEndYear(f.exportEndYear))
	}
	if fs.Changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	if fs.Changed("output") {
		res = append(res, config.OptExportFolder(f.output))
	}
	if fs.Changed("per-year") {
		res = append(res, config.OptExportPerYear(f.perYear))
	}
	if fs.Changed("postgres") {
		res = append(res, config.OptExportPostgres(f.postgres))
	}
	if fs.Changed("topo") {
		res = append(res, config.OptTopoEnabled(f.topo))
	}
	if fs.Changed("include-empty") {
		res = append(res, config.OptAnalysisIncludeYearsWithNoImages(f.includeEmpty))
	}
	if fs.Changed("zones") {
		res = append(res, config.OptExportZonesGeoJSON(f.zones))
	}
	return res
}
