package ioexport

import (
	"os"
	"path/filepath"

	"github.com/mrds-es/minedist/internal/iofs"
	"github.com/mrds-es/minedist/pkg/zone"
)

// ZonesFileName returns the name of the zones file of a scope.
func ZonesFileName(prefix, tag string) string {
	return prefix + "_" + tag + "_zones.geojson"
}

// WriteZones saves zone polygons with their attributes as GeoJSON.
func WriteZones(path string, zones []zone.Zone) error {
	if err := iofs.EnsureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := zone.FeatureCollection(zones).MarshalJSON()
	if err != nil {
		return GeoJSONError(path, err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return GeoJSONError(path, err)
	}
	return nil
}
