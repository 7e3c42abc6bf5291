package iopopulate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/pkg/errcode"
)

// NotConnectedError creates an error for when copy
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Saving statistics attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// CopyError creates an error for a failed COPY of a batch.
func CopyError(rows int, err error) error {
	msg := `Cannot copy %d rows to database

<em>How to fix:</em>
  1. Run <em>minedist migrate</em> to create the 'zone_year_stats' table
  2. Check database user has INSERT permissions`

	return &gn.Error{
		Code: errcode.DBCopyError,
		Msg:  msg,
		Vars: []any{rows},
		Err:  fmt.Errorf("failed to copy %d rows: %w", rows, err),
	}
}
