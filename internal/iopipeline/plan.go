package iopipeline

import (
	"context"
	"log/slog"

	"github.com/mrds-es/minedist/pkg/export"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/zone"
	"github.com/paulmach/orb"
)

// plan is the set of work of a run.
type plan struct {
	tag     string
	records int
	valid   int
	sites   []site.Site
	zones   []zone.Zone
	years   []int
	items   []item
}

// item is the work of one site in one year. All zones of a site share
// one composite.
type item struct {
	site  site.Site
	zones []zone.Zone
	bound orb.Bound
	year  int
}

// Sites reads, validates and scopes sites of the run.
func (p *Pipeline) Sites(ctx context.Context) (all, scoped []site.Site, records int, err error) {
	filter := p.cfg.SiteFilter()
	recs, err := p.sites.Sites(ctx, filter.Bound)
	if err != nil {
		return nil, nil, 0, err
	}
	all = site.Ingest(recs, filter)
	scoped = p.cfg.SiteScope().Apply(all)
	slog.Info("Sites loaded",
		"records", len(recs), "valid", len(all), "scoped", len(scoped))
	return all, scoped, len(recs), nil
}

func (p *Pipeline) plan(ctx context.Context) (*plan, error) {
	all, scoped, records, err := p.Sites(ctx)
	if err != nil {
		return nil, err
	}
	scope := p.cfg.SiteScope()
	if len(scoped) == 0 {
		return nil, NoSitesError(scope.Tag(), records)
	}

	a := p.cfg.Analysis
	years := export.Years(a.StartYear, a.EndYear, a.ExportStartYear, a.ExportEndYear)
	if len(years) == 0 {
		return nil, NoYearsError(a.StartYear, a.EndYear, a.ExportStartYear, a.ExportEndYear)
	}

	zones := zone.Build(scoped, p.cfg.Sites.BuffersM, p.cfg.Sites.BufferSegments)
	bySite := make(map[string][]zone.Zone, len(scoped))
	for _, z := range zones {
		bySite[z.Site.ID] = append(bySite[z.Site.ID], z)
	}

	res := &plan{
		tag:     scope.Tag(),
		records: records,
		valid:   len(all),
		sites:   scoped,
		zones:   zones,
		years:   years,
	}
	for _, s := range scoped {
		zs := bySite[s.ID]
		if len(zs) == 0 {
			continue
		}
		b := zone.Bound(zs)
		for _, y := range years {
			res.items = append(res.items, item{site: s, zones: zs, bound: b, year: y})
		}
	}
	return res, nil
}
