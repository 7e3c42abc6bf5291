package iocatalog

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open catalog <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CatalogOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open catalog: %w", fn, err),
	}
}

func SitesError(path string, err error) error {
	msg := "Cannot read sites from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CatalogSitesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read sites: %w", fn, err),
	}
}

func ScenesError(path string, err error) error {
	msg := "Cannot read scenes from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CatalogScenesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read scenes: %w", fn, err),
	}
}

func DEMError(path string, err error) error {
	msg := "Cannot read elevation from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CatalogDEMError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read elevation: %w", fn, err),
	}
}
