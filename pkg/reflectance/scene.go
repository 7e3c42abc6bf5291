package reflectance

import (
	"errors"
	"fmt"
	"time"

	"github.com/mrds-es/minedist/pkg/raster"
)

// Linear rescale of Collection 2 Level-2 digital numbers.
const (
	ScaleMult = 0.0000275
	ScaleAdd  = -0.2
)

// ErrSceneShape is returned when scene arrays do not match its grid.
var ErrSceneShape = errors.New("scene arrays do not match grid")

// RawScene is a surface reflectance scene as it comes from a catalog:
// digital numbers per source band and the two QA layers.
type RawScene struct {
	ID         string
	Sensor     Sensor
	Acquired   time.Time
	CloudCover float64
	// SunAzimuth and SunElevation are in degrees, nil if not known.
	SunAzimuth   *float64
	SunElevation *float64
	Grid         raster.Grid
	// Bands are keyed by source band names (SR_B1 ... SR_B7).
	Bands    map[string][]uint16
	QAPixel  []uint16
	QARadsat []uint16
}

// Observation is a normalized scene. Its image holds OpticalBands and,
// after index computation, the spectral index bands.
type Observation struct {
	SceneID       string
	Sensor        Sensor
	Acquired      time.Time
	CloudCover    float64
	SunAzimuth    *float64
	SunElevation  *float64
	TopoCorrected bool
	// Order is the position of the scene in the catalog listing.
	Order int
	Image raster.Image
}

// Rescale converts a digital number to surface reflectance.
func Rescale(dn uint16) float64 {
	return float64(dn)*ScaleMult + ScaleAdd
}

// Normalize rescales source bands of a scene into the harmonized band
// layout and masks pixels that are flagged by QA layers. A masked pixel is
// invalid in every band.
func Normalize(sc RawScene) (Observation, error) {
	src := sc.Sensor.SourceBands()
	if src == nil {
		return Observation{}, fmt.Errorf("scene %s: unknown sensor", sc.ID)
	}
	n := sc.Grid.Len()
	if len(sc.QAPixel) != n || len(sc.QARadsat) != n {
		return Observation{}, fmt.Errorf("scene %s QA: %w", sc.ID, ErrSceneShape)
	}

	dns := make([][]uint16, len(src))
	for i, v := range src {
		dn, ok := sc.Bands[v]
		if !ok {
			return Observation{}, fmt.Errorf("scene %s misses band %s", sc.ID, v)
		}
		if len(dn) != n {
			return Observation{}, fmt.Errorf("scene %s band %s: %w", sc.ID, v, ErrSceneShape)
		}
		dns[i] = dn
	}

	img := raster.NewImage(sc.Grid, OpticalBands...)
	for px := range n {
		if !Clear(sc.QAPixel[px], sc.QARadsat[px]) {
			continue
		}
		for i := range dns {
			img.Bands[i].Set(px, Rescale(dns[i][px]))
		}
	}

	res := Observation{
		SceneID:      sc.ID,
		Sensor:       sc.Sensor,
		Acquired:     sc.Acquired,
		CloudCover:   sc.CloudCover,
		SunAzimuth:   sc.SunAzimuth,
		SunElevation: sc.SunElevation,
		Image:        img,
	}
	return res, nil
}
