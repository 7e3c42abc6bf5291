package ioexport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/pkg/errcode"
)

func CSVError(path string, err error) error {
	msg := "Cannot write table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportCSVError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write csv: %w", fn, err),
	}
}

func GeoJSONError(path string, err error) error {
	msg := "Cannot write zones to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportGeoJSONError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write geojson: %w", fn, err),
	}
}

func ReportError(path string, err error) error {
	msg := "Cannot write run report <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportReportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write report: %w", fn, err),
	}
}

func TrendInputError(path string, err error) error {
	msg := "Cannot read series table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TrendInputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read series: %w", fn, err),
	}
}
