// Package reflectance harmonizes Landsat Collection 2 Level-2 surface
// reflectance scenes into a common six-band layout with QA masking.
package reflectance

import (
	"fmt"
	"strings"
)

// Sensor is one of the supported Landsat instruments.
type Sensor int

const (
	UnknownSensor Sensor = iota
	L5
	L7
	L8
	L9
)

var sensorNames = map[Sensor]string{
	L5: "LT05",
	L7: "LE07",
	L8: "LC08",
	L9: "LC09",
}

// Common band names shared by all sensors after harmonization.
const (
	Blue  = "blue"
	Green = "green"
	Red   = "red"
	NIR   = "nir"
	SWIR1 = "swir1"
	SWIR2 = "swir2"
)

// OpticalBands lists harmonized band names in their canonical order.
var OpticalBands = []string{Blue, Green, Red, NIR, SWIR1, SWIR2}

var (
	gen1Bands = []string{"SR_B1", "SR_B2", "SR_B3", "SR_B4", "SR_B5", "SR_B7"}
	gen2Bands = []string{"SR_B2", "SR_B3", "SR_B4", "SR_B5", "SR_B6", "SR_B7"}
)

// String returns the short Landsat product name of the sensor.
func (s Sensor) String() string {
	if res, ok := sensorNames[s]; ok {
		return res
	}
	return "unknown"
}

// Generation returns 1 for TM/ETM+ and 2 for OLI sensors.
func (s Sensor) Generation() int {
	switch s {
	case L5, L7:
		return 1
	case L8, L9:
		return 2
	default:
		return 0
	}
}

// Collection returns the identifier of the surface reflectance collection.
func (s Sensor) Collection() string {
	return "LANDSAT/" + s.String() + "/C02/T1_L2"
}

// SourceBands returns sensor band names that map to OpticalBands.
func (s Sensor) SourceBands() []string {
	switch s.Generation() {
	case 1:
		return gen1Bands
	case 2:
		return gen2Bands
	default:
		return nil
	}
}

// ParseSensor converts a product name (LT05, LC08, ...), a collection id
// or a short name (L5, L8, ...) to a Sensor.
func ParseSensor(s string) (Sensor, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for k, v := range sensorNames {
		short := fmt.Sprintf("L%d", sensorNumber(k))
		if s == v || s == short || strings.Contains(s, "/"+v+"/") {
			return k, nil
		}
	}
	return UnknownSensor, fmt.Errorf("unknown sensor '%s'", s)
}

// AllSensors returns supported sensors from the oldest to the newest.
func AllSensors() []Sensor {
	return []Sensor{L5, L7, L8, L9}
}

func sensorNumber(s Sensor) int {
	switch s {
	case L5:
		return 5
	case L7:
		return 7
	case L8:
		return 8
	case L9:
		return 9
	default:
		return 0
	}
}
