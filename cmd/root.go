/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/internal/iofs"
	"github.com/mrds-es/minedist/internal/iologger"
	minedist "github.com/mrds-es/minedist/pkg"
	"github.com/mrds-es/minedist/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", minedist.Version, minedist.Build),
		Use:     "minedist",
		Short:   "Annual disturbance statistics around MRDS mine sites",
		Long: `minedist computes annual seasonal-composite statistics of surface
disturbance around mineral occurrence sites of the USGS MRDS database.

For every site and buffer radius it builds a median composite of Landsat
surface reflectance for a seasonal window of each year, computes spectral
indices, classifies pixels by NDVI into bare, sparse and vegetated ground
and summarizes them inside of the buffer zone.

Commands:
  - run: compute zone-year statistics and export them
  - sites: inspect sites and zones selected for a run
  - trends: summarize an exported series with slopes and changes
  - migrate: create or update the PostgreSQL statistics table
  - optimize: remove superseded rows from the statistics table
  - config: print the effective configuration

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (MINEDIST_*)
  3. .env files
  4. Config file (~/.config/minedist/config.yaml)
  5. Built-in defaults

Examples:
  MINEDIST_ANALYSIS_START_YEAR=2000 minedist run
  MINEDIST_DATABASE_HOST=db.local minedist migrate`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, args []string) error {
			versionFlag(cmd)
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "minedist version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V
	rootCmd.Flags().BoolP("version", "V", false, "version for minedist")

	rootCmd.AddCommand(
		getRunCmd(),
		getSitesCmd(),
		getTrendsCmd(),
		getMigrateCmd(),
		getOptimizeCmd(),
		getConfigCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.LoadEnv(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, the log file keeps
	// messages of the bootstrap.
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// initConfig reads config.yaml on top of built-in defaults. Keys missing
// from the file keep their default values.
func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()

	defaults, err := yaml.Marshal(config.New())
	if err != nil {
		return nil, err
	}
	v.SetConfigType("yaml")
	if err = v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, err
	}

	v.SetConfigFile(cfgPath)
	initEnvVars(v)

	if err = v.MergeInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("MINEDIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		// Catalog configuration
		"catalog.sites_path",
		"catalog.scenes_path",
		"catalog.x_field",
		"catalog.y_field",
		"catalog.name_field",

		// Analysis configuration
		"analysis.start_year",
		"analysis.end_year",
		"analysis.export_start_year",
		"analysis.export_end_year",
		"analysis.season_start_month",
		"analysis.season_end_month",
		"analysis.cloud_cover_max",
		"analysis.max_images_per_season",
		"analysis.include_years_with_no_images",
		"analysis.scale_m",
		"analysis.savi_l",

		// Sites and scope
		"sites.buffers_m",
		"sites.target_names",
		"sites.buffer_segments",
		"scope.partition_count",
		"scope.partition_index",
		"scope.seed",

		// Classes and topographic correction
		"classes.ndvi_bare_max",
		"classes.ndvi_sparse_max",
		"classes.min_valid_pixel_pct",
		"topo.enabled",
		"topo.slope_min_deg",
		"topo.min_illumination_cosine",

		// Export configuration
		"export.folder",
		"export.prefix",
		"export.per_year",
		"export.series",
		"export.zones_geojson",
		"export.postgres",

		// Database configuration
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",
		"database.batch_size",

		// Log configuration
		"log.level",
		"log.format",
		"log.destination",

		// General configuration
		"jobs_number",
		"unit_timeout_sec",
	}
	for _, k := range keys {
		_ = v.BindEnv(k, envName(k))
	}

	v.AutomaticEnv()
}

// envName converts a config key to the name of its environment variable,
// for example "database.host" becomes MINEDIST_DATABASE_HOST.
func envName(key string) string {
	return "MINEDIST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
