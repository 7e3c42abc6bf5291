package config

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/mrds-es/minedist/pkg/errcode"
)

func ValidationError(details string, err error) error {
	msg := "Invalid configuration: %s"
	vars := []any{details}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConfigValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: config validation failed: %w",
			fn, err),
	}
}
