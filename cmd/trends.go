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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/internal/ioexport"
	"github.com/mrds-es/minedist/pkg/trend"
	"github.com/spf13/cobra"
)

// getTrendsCmd returns the trends command.
func getTrendsCmd() *cobra.Command {
	var (
		input      string
		summaryOut string
		cleanOut   string
		minYears   int
		metrics    string
	)

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "Summarize trends of an exported series table",
		Long: `Trends reads a series table exported by the run command and writes
two tables:

  - a clean table with site, buffer, year, image count, QA flag and
    the selected metrics, sorted by site name, buffer and year
  - a summary with start and end values, absolute and percent change,
    OLS and Theil-Sen slopes per year and their directions for every
    site name, buffer and metric

Rows without site name, buffer or a numeric year are dropped. Slopes
need at least --min-years values of a metric.

Examples:
  minedist trends --input exports/mrds_mine_disturbance_long_all_sites_1984_2024.csv
  minedist trends --input series.csv --min-years 5 --metrics mean_ndvi,bare_pct`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tp := trendParams{
				input:      input,
				summaryOut: summaryOut,
				cleanOut:   cleanOut,
				minYears:   minYears,
				metrics:    trend.ParseMetrics(metrics),
			}
			err := runTrends(tp)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fs := trendsCmd.Flags()
	fs.StringVar(&input, "input", "", "series table exported by the run command")
	fs.StringVar(&summaryOut, "summary-out", "",
		"summary table path (default <input>_trend_summary.csv)")
	fs.StringVar(&cleanOut, "clean-out", "",
		"clean table path (default <input>_clean.csv)")
	fs.IntVar(&minYears, "min-years", trend.DefaultMinYears,
		"minimum number of values for slope estimates")
	fs.StringVar(&metrics, "metrics", strings.Join(trend.DefaultMetrics, ","),
		"comma-separated metric columns")
	_ = trendsCmd.MarkFlagRequired("input")

	return trendsCmd
}

type trendParams struct {
	input      string
	summaryOut string
	cleanOut   string
	minYears   int
	metrics    []string
}

type trendCounts struct {
	input       int
	clean       int
	summary     int
	cleanPath   string
	summaryPath string
}

func runTrends(tp trendParams) error {
	res, err := trends(tp)
	if err != nil {
		return err
	}
	gn.Info("Input rows: <em>%s</em>", humanize.Comma(int64(res.input)))
	gn.Info("Clean rows written: <em>%s</em> -> %s",
		humanize.Comma(int64(res.clean)), res.cleanPath)
	gn.Info("Trend summary rows written: <em>%s</em> -> %s",
		humanize.Comma(int64(res.summary)), res.summaryPath)
	return nil
}

// trends reads the input table and writes clean and summary tables.
// Empty output paths are replaced by defaults next to the input.
func trends(tp trendParams) (trendCounts, error) {
	var res trendCounts
	summaryPath, cleanPath := ioexport.TrendPaths(tp.input)
	if tp.summaryOut == "" {
		tp.summaryOut = summaryPath
	}
	if tp.cleanOut == "" {
		tp.cleanOut = cleanPath
	}
	if len(tp.metrics) == 0 {
		tp.metrics = trend.DefaultMetrics
	}

	samples, count, err := ioexport.ReadSamples(tp.input, tp.metrics)
	if err != nil {
		return res, err
	}
	trend.Sort(samples)
	summaries := trend.Summarize(samples, tp.metrics, tp.minYears)

	if err = ioexport.WriteClean(tp.cleanOut, samples, tp.metrics); err != nil {
		return res, err
	}
	if err = ioexport.WriteSummary(tp.summaryOut, summaries); err != nil {
		return res, err
	}

	res = trendCounts{
		input:       count,
		clean:       len(samples),
		summary:     len(summaries),
		cleanPath:   tp.cleanOut,
		summaryPath: tp.summaryOut,
	}
	return res, nil
}
