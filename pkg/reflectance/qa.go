package reflectance

// QA_PIXEL bit positions.
const (
	BitFill         = 0
	BitDilatedCloud = 1
	BitCirrus       = 2
	BitCloud        = 3
	BitShadow       = 4
	BitSnow         = 5
)

var qaBits = []uint{
	BitFill, BitDilatedCloud, BitCirrus, BitCloud, BitShadow, BitSnow,
}

// Clear returns true if a pixel has none of the fill, cloud, cirrus,
// shadow, snow flags set and is not saturated in any band.
func Clear(qaPixel, qaRadsat uint16) bool {
	if qaRadsat != 0 {
		return false
	}
	for _, b := range qaBits {
		if qaPixel&(1<<b) != 0 {
			return false
		}
	}
	return true
}
