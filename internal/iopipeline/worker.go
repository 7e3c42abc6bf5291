package iopipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/composite"
	"github.com/mrds-es/minedist/pkg/export"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/spectral"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/mrds-es/minedist/pkg/zonal"
	"golang.org/x/sync/errgroup"
)

// outcome is the result of one item.
type outcome struct {
	rows    []export.Row
	omitted int
	skipped []SkippedUnit
}

// process runs items on JobsNumber workers and collects rows.
func (p *Pipeline) process(ctx context.Context, pl *plan, rep *Report) ([]export.Row, error) {
	chIn := make(chan item)
	chOut := make(chan outcome)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, v := range pl.items {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- v:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range max(p.cfg.JobsNumber, 1) {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return p.worker(gCtx, chIn, chOut)
		})
	}

	go func() {
		wg.Wait()
		close(chOut)
	}()

	var rows []export.Row
	g.Go(func() error {
		var bar *pb.ProgressBar
		if p.progress {
			bar = newProgressBar(len(pl.items), "Site-years: ")
			defer bar.Finish()
		}
		for o := range chOut {
			rows = append(rows, o.rows...)
			rep.UnitsSucceeded += len(o.rows)
			rep.UnitsOmitted += o.omitted
			rep.UnitsSkipped += len(o.skipped)
			rep.Skipped = append(rep.Skipped, o.skipped...)
			if bar != nil {
				bar.Increment()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *Pipeline) worker(
	ctx context.Context,
	chIn <-chan item,
	chOut chan<- outcome,
) error {
	for it := range chIn {
		select {
		case <-ctx.Done():
			// drain the channel on cancellation
			for range chIn {
			}
			return ctx.Err()
		default:
		}

		o := p.processItem(ctx, it)
		select {
		case <-ctx.Done():
			for range chIn {
			}
			return ctx.Err()
		case chOut <- o:
		}
	}
	return nil
}

// unitContext limits computation of one unit of work.
func (p *Pipeline) unitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.UnitTimeoutSec <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(p.cfg.UnitTimeoutSec)*time.Second)
}

// processItem builds the composite of a site-year and computes statistics
// of all its zones. Failures are returned as skipped units.
func (p *Pipeline) processItem(ctx context.Context, it item) outcome {
	var res outcome
	skipAll := func(err error) outcome {
		for _, z := range it.zones {
			res.skipped = append(res.skipped, SkippedUnit{
				SiteBufferKey: z.Key(),
				Year:          it.year,
				Reason:        err.Error(),
			})
		}
		slog.Warn("Site-year skipped",
			"site_id", it.site.ID, "year", it.year, "error", err)
		return res
	}

	uCtx, cancel := p.unitContext(ctx)
	comp, err := p.compose(uCtx, it)
	cancel()
	if err != nil {
		return skipAll(ComposeError(it.site.ID, it.year, err))
	}

	if comp.Empty() && !p.cfg.Analysis.IncludeYearsWithNoImages {
		res.omitted = len(it.zones)
		slog.Debug("No images in season",
			"site_id", it.site.ID, "year", it.year)
		return res
	}

	ndvi, _ := comp.Image.Band(spectral.NDVI)
	cl := p.cfg.Thresholds().Classify(ndvi)
	agg := zonal.Aggregator{MinValidPct: p.cfg.Classes.MinValidPixelPct}
	for _, z := range it.zones {
		zCtx, cancel := p.unitContext(ctx)
		st, err := agg.Aggregate(zCtx, z, comp, cl)
		cancel()
		if err != nil {
			err = UnitError(z.Key(), it.year, err)
			slog.Warn("Zone-year skipped", "key", z.Key(), "year", it.year, "error", err)
			res.skipped = append(res.skipped, SkippedUnit{
				SiteBufferKey: z.Key(),
				Year:          it.year,
				Reason:        err.Error(),
			})
			continue
		}
		res.rows = append(res.rows, export.NewRow(st))
	}
	return res
}

// compose reads scenes of the season, normalizes and corrects them, adds
// spectral indices and builds the median composite on a grid that
// covers all zones of the site.
func (p *Pipeline) compose(ctx context.Context, it item) (composite.Composite, error) {
	a := p.cfg.Analysis
	start, end := composite.Window(it.year, a.SeasonStartMonth, a.SeasonEndMonth)
	raw, err := p.scenes.Scenes(ctx, catalog.Query{
		Bound:    it.bound,
		Start:    start,
		End:      end,
		MaxCloud: a.CloudCoverMax,
	})
	if err != nil {
		return composite.Composite{}, err
	}

	var tp terrain.Products
	var topo bool
	if p.cfg.Topo.Enabled {
		tp, topo = p.products(ctx, it.site.ID, it.bound)
	}
	ts := terrain.Settings{
		SlopeMinDeg:           p.cfg.Topo.SlopeMinDeg,
		MinIlluminationCosine: p.cfg.Topo.MinIlluminationCosine,
	}

	obs := make([]reflectance.Observation, 0, len(raw))
	for i, sc := range raw {
		if err = ctx.Err(); err != nil {
			return composite.Composite{}, err
		}
		o, err := reflectance.Normalize(sc)
		if err != nil {
			slog.Warn("Scene ignored", "scene_id", sc.ID, "error", err)
			continue
		}
		o.Order = i
		if topo {
			o = terrain.Correct(o, tp, ts)
		}
		if err = spectral.AddIndices(&o.Image, a.SAVIL); err != nil {
			slog.Warn("Scene ignored", "scene_id", sc.ID, "error", err)
			continue
		}
		obs = append(obs, o)
	}

	st := composite.Settings{
		StartMonth:    a.SeasonStartMonth,
		EndMonth:      a.SeasonEndMonth,
		CloudCoverMax: a.CloudCoverMax,
		MaxImages:     a.MaxImagesPerSeason,
		Bands:         compositeBands(),
	}
	grid := raster.GridFor(it.bound, a.ScaleM)
	comp := composite.New(st, grid).Compose(it.year, obs)
	if err = ctx.Err(); err != nil {
		return composite.Composite{}, err
	}
	return comp, nil
}

func compositeBands() []string {
	res := make([]string, 0, len(reflectance.OpticalBands)+len(spectral.Names))
	res = append(res, reflectance.OpticalBands...)
	return append(res, spectral.Names...)
}
