package iooptimize

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/pkg/errcode"
)

// NotConnectedError is returned when optimization is attempted without
// database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Optimization attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// DedupError is returned when superseded rows cannot be removed.
func DedupError(err error) error {
	msg := `Cannot remove superseded rows

<em>How to fix:</em>
  1. Run <em>minedist migrate</em> to update the 'zone_year_stats' table
  2. Check database user has DELETE permissions`

	return &gn.Error{
		Code: errcode.OptimizeDedupError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to remove superseded rows: %w", err),
	}
}

// DropRunError is returned when rows of a run cannot be removed.
func DropRunError(runID string, err error) error {
	return &gn.Error{
		Code: errcode.OptimizeDropRunError,
		Msg:  "Cannot remove rows of run <em>%s</em>",
		Vars: []any{runID},
		Err:  fmt.Errorf("failed to remove run %s: %w", runID, err),
	}
}

// VacuumError is returned when VACUUM ANALYZE fails.
func VacuumError(err error) error {
	msg := `Cannot update table statistics

<em>How to fix:</em>
  1. Check database user owns the 'zone_year_stats' table
  2. Check PostgreSQL logs for details`

	return &gn.Error{
		Code: errcode.OptimizeVacuumError,
		Msg:  msg,
		Err:  fmt.Errorf("VACUUM ANALYZE failed: %w", err),
	}
}
