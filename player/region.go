package player

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds the frame timing for a region.
type RegionTiming struct {
	Scanlines int // Total scanlines per frame
	FPS       int // Frames per second
}

// NTSC timing: 262 scanlines, 60 Hz
var NTSCTiming = RegionTiming{
	Scanlines: 262,
	FPS:       60,
}

// PAL timing: 313 scanlines, 50 Hz
var PALTiming = RegionTiming{
	Scanlines: 313,
	FPS:       50,
}

// GetTimingForRegion returns the appropriate timing constants
func GetTimingForRegion(r Region) RegionTiming {
	if r == RegionPAL {
		return PALTiming
	}
	return NTSCTiming
}

// DefaultRegion returns the default region (NTSC).
func DefaultRegion() Region {
	return RegionNTSC
}

// DetectRegion reports the region of a scene. Snapshots carry no region,
// so the result is always (NTSC, false).
func DetectRegion(scene []byte) (Region, bool) {
	return RegionNTSC, false
}
