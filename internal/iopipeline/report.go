package iopipeline

import (
	"time"

	"github.com/gnames/gnfmt"
	minedist "github.com/mrds-es/minedist/pkg"
)

// Report summarizes a run.
type Report struct {
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	ScopeTag  string    `json:"scope_tag"`

	SiteRecords int   `json:"site_records"`
	ValidSites  int   `json:"valid_sites"`
	ScopedSites int   `json:"scoped_sites"`
	Zones       int   `json:"zones"`
	Years       []int `json:"years"`

	// UnitsTotal is the number of zone-years of the run.
	UnitsTotal     int `json:"units_total"`
	UnitsSucceeded int `json:"units_succeeded"`
	// UnitsOmitted are zone-years without images, when such years are
	// not exported.
	UnitsOmitted int           `json:"units_omitted"`
	UnitsSkipped int           `json:"units_skipped"`
	Skipped      []SkippedUnit `json:"skipped,omitempty"`

	Rows         int      `json:"rows"`
	DatabaseRows int      `json:"database_rows"`
	Files        []string `json:"files,omitempty"`
}

// SkippedUnit is a zone-year that failed.
type SkippedUnit struct {
	SiteBufferKey string `json:"site_buffer_key"`
	Year          int    `json:"year"`
	Reason        string `json:"reason"`
}

func (r *Report) finish(started time.Time) {
	r.Version = minedist.Version
	r.Duration = gnfmt.TimeString(time.Since(started).Seconds())
}
