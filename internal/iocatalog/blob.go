package iocatalog

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mrds-es/minedist/pkg/raster"
)

func encodeUint16(vals []uint16) []byte {
	res := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(res[2*i:], v)
	}
	return res
}

func decodeUint16(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("blob of %d bytes is not a uint16 array", len(data))
	}
	res := make([]uint16, len(data)/2)
	for i := range res {
		res[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	return res, nil
}

func encodeElevation(b raster.Band) []byte {
	res := make([]byte, 4*b.Len())
	for i := range b.Data {
		v := float32(math.NaN())
		if b.Valid[i] {
			v = float32(b.Data[i])
		}
		binary.LittleEndian.PutUint32(res[4*i:], math.Float32bits(v))
	}
	return res
}

func decodeElevation(data []byte, n int) (raster.Band, error) {
	if len(data) != 4*n {
		return raster.Band{}, fmt.Errorf(
			"elevation blob has %d bytes, grid needs %d", len(data), 4*n,
		)
	}
	res := raster.NewBand("elevation", n)
	for i := range n {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		if math.IsNaN(float64(v)) {
			continue
		}
		res.Set(i, float64(v))
	}
	return res, nil
}
