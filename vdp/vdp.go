// Package vdp implements a 16-bit era tile and sprite display processor as a
// set of resource tables plus a per-pixel compositor.
//
// The tables (palette, pattern atlas, plane cells, sprite list and scroll
// tables) are written by the caller between frames. Render evaluates every
// output pixel as a pure function of the tables and writes the result into a
// fixed 320x224 framebuffer. Present scales that framebuffer onto an
// arbitrary destination rectangle.
//
// The software Context in this package is the reference renderer. GPU
// backends live under bridge/ and implement the same Device interface.
package vdp

// Fixed resource capacities. Asset data prepared for the engine depends on
// these values, so they must not change.
const (
	ScreenWidth  = 320
	ScreenHeight = 224

	ColorCount   = 64
	PaletteSlots = ColorCount * 3

	PatternWidth  = 8
	PatternHeight = 8
	PatternCount  = 2048

	PlaneMaxCells = 128
	PlaneCount    = 3

	SpriteCount = 128

	HScrollCount = 256
	VScrollCount = ScreenWidth / PatternWidth / 2
)

// Sub-palette bases inside the 192 palette slots.
const (
	ShadowBase    = 0
	NormalBase    = ColorCount
	HighlightBase = ColorCount * 2
)

// SpriteOffset is added to sprite X and Y positions by convention: a sprite
// at (128, 128) has its top-left corner at screen (0, 0).
const SpriteOffset = 128

// Mode selects between plain palette lookup and shadow/highlight rendering.
type Mode int

const (
	ModeNormal Mode = iota
	ModeIntensity
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeIntensity:
		return "intensity"
	default:
		return "unknown"
	}
}

// Plane identifies one of the three tile maps.
type Plane int

const (
	PlaneA Plane = iota
	PlaneB
	PlaneW
)

func (p Plane) String() string {
	switch p {
	case PlaneA:
		return "A"
	case PlaneB:
		return "B"
	case PlaneW:
		return "W"
	default:
		return "?"
	}
}

// Filter selects the sampling used by Present.
type Filter int

const (
	FilterNearest Filter = iota
	FilterBilinear
)

func (f Filter) String() string {
	if f == FilterBilinear {
		return "bilinear"
	}
	return "nearest"
}

// ParseFilter maps "nearest" and "bilinear" (also "linear") to a Filter.
// Unknown names yield FilterNearest.
func ParseFilter(s string) Filter {
	switch s {
	case "bilinear", "linear":
		return FilterBilinear
	}
	return FilterNearest
}

// Device is the table-writing surface shared by every backend. Counts are
// carried by slice lengths; writes past a table's capacity are clipped.
type Device interface {
	SetMode(m Mode)
	SetBackgroundColor(index int)
	SetPlaneSize(width, height int)
	SetWindowCoord(x, y int)
	SetColors(start int, colors []Color)
	SetColorsSH(start int, colors []Color)
	SetPatterns(start int, patterns []Pattern)
	SetSprites(start int, sprites []Sprite)
	SetCells(plane Plane, x, y, w, h int, cells []Cell)
	SetHScroll(plane Plane, start int, values []int16)
	SetVScroll(plane Plane, start int, values []int16)
	Render() error
}

// validPlaneSize reports the plane dimension in cells, falling back to 32
// for anything other than 32, 64 or 128.
func validPlaneSize(n int) int {
	switch n {
	case 32, 64, 128:
		return n
	}
	return 32
}

// mod returns a non-negative remainder.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
