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
	"cmp"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/internal/ioexport"
	"github.com/mrds-es/minedist/internal/iopipeline"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/zone"
	"github.com/spf13/cobra"
)

// getSitesCmd returns the sites command.
func getSitesCmd() *cobra.Command {
	var (
		flags  scopeFlags
		output string
	)

	sitesCmd := &cobra.Command{
		Use:   "sites",
		Short: "Show sites and zones selected for a run",
		Long: `Sites reads the site catalog, applies filters and the scope exactly
as the run command does and prints how many sites are selected, grouped
by production stage. No scenes are read.

With --output the buffer zones of selected sites are saved as a GeoJSON
feature collection.

Examples:
  minedist sites
  minedist sites --partition-count 4 --partition-index 2
  minedist sites -n "Mina Vieja" -b 500,1000 -o zones.geojson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(flags.options(cmd))
			err := runSites(cmd, output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.register(sitesCmd)
	sitesCmd.Flags().StringVarP(&output, "output", "o", "",
		"save zones to this GeoJSON file")
	return sitesCmd
}

func runSites(cmd *cobra.Command, output string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	cats, err := openCatalogs(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer cats.Close()

	p := iopipeline.New(cfg, cats.sites, nil)
	all, scoped, records, err := p.Sites(ctx)
	if err != nil {
		return err
	}

	gn.Info("Records: <em>%s</em>, valid sites: <em>%s</em>, selected: <em>%s</em>",
		humanize.Comma(int64(records)),
		humanize.Comma(int64(len(all))),
		humanize.Comma(int64(len(scoped))),
	)
	for _, v := range countByStage(scoped) {
		gn.Message("  %s: %s", v.stage, humanize.Comma(int64(v.count)))
	}

	zones := zone.Build(scoped, cfg.Sites.BuffersM, cfg.Sites.BufferSegments)
	gn.Info("Zones: <em>%s</em> (buffers %v m)",
		humanize.Comma(int64(len(zones))), cfg.Sites.BuffersM)

	if output == "" {
		return nil
	}
	if err = ioexport.WriteZones(output, zones); err != nil {
		return err
	}
	gn.Info("Saved <em>%s</em>", output)
	return nil
}

type stageCount struct {
	stage string
	count int
}

// countByStage counts sites by production stage, the largest group
// first.
func countByStage(sites []site.Site) []stageCount {
	counts := make(map[string]int)
	for _, v := range sites {
		counts[v.ProdStage]++
	}
	res := make([]stageCount, 0, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		res = append(res, stageCount{stage: k, count: counts[k]})
	}
	slices.SortStableFunc(res, func(a, b stageCount) int {
		return cmp.Compare(b.count, a.count)
	})
	return res
}
