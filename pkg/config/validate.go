package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mrds-es/minedist/pkg/classify"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/paulmach/orb"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks constraints between fields that options cannot check
// one at a time. A config that fails validation must not be used for a
// run.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationError(err.Error(), err)
	}

	msgs := make([]string, len(verrs))
	for i, v := range verrs {
		msgs[i] = fieldMessage(v)
	}
	return ValidationError(strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s cannot be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s fails '%s=%s' rule (value %v)",
			field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// Thresholds returns NDVI class limits.
func (c *Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		BareMax:   c.Classes.NDVIBareMax,
		SparseMax: c.Classes.NDVISparseMax,
	}
}

// SiteScope returns the site selection of the config.
func (c *Config) SiteScope() site.Scope {
	return site.Scope{
		SiteID:         c.Scope.SiteID,
		SiteName:       c.Scope.SiteName,
		PartitionCount: c.Scope.PartitionCount,
		PartitionIndex: c.Scope.PartitionIndex,
		Seed:           c.Scope.Seed,
	}
}

// SiteFilter returns target names and the study area.
func (c *Config) SiteFilter() site.Filter {
	res := site.Filter{TargetNames: c.Sites.TargetNames}
	if len(c.Sites.BBox) == 4 {
		bb := c.Sites.BBox
		res.Bound = orb.Bound{
			Min: orb.Point{bb[0], bb[1]},
			Max: orb.Point{bb[2], bb[3]},
		}
	}
	return res
}
