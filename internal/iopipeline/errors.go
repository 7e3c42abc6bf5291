package iopipeline

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/pkg/errcode"
)

// NoSitesError is returned when site filters and scope leave no site.
func NoSitesError(tag string, records int) error {
	msg := `No sites to process in scope <em>%s</em> (%d records in catalog)

<em>How to fix:</em>
  1. Check coordinate and name columns of the site catalog
  2. Check target names, bbox and scope settings`

	return &gn.Error{
		Code: errcode.PipelineNoSitesError,
		Msg:  msg,
		Vars: []any{tag, records},
		Err:  fmt.Errorf("no sites in scope %s", tag),
	}
}

// NoYearsError is returned when analysis and export years do not overlap.
func NoYearsError(start, end, exportStart, exportEnd int) error {
	msg := "Analysis years %d-%d do not overlap export years %d-%d"
	return &gn.Error{
		Code: errcode.PipelineNoYearsError,
		Msg:  msg,
		Vars: []any{start, end, exportStart, exportEnd},
		Err: fmt.Errorf("no years in %d-%d and %d-%d",
			start, end, exportStart, exportEnd),
	}
}

// ComposeError is returned when a composite of a site-year fails.
func ComposeError(siteID string, year int, err error) error {
	return &gn.Error{
		Code: errcode.PipelineComposeError,
		Msg:  "Cannot build composite of <em>%s</em> for %d",
		Vars: []any{siteID, year},
		Err:  fmt.Errorf("composite of %s for %d: %w", siteID, year, err),
	}
}

// UnitError is returned when statistics of a zone-year fail.
func UnitError(key string, year int, err error) error {
	return &gn.Error{
		Code: errcode.PipelineUnitError,
		Msg:  "Cannot compute statistics of <em>%s</em> for %d",
		Vars: []any{key, year},
		Err:  fmt.Errorf("statistics of %s for %d: %w", key, year, err),
	}
}
