package vdp

// layerPixel is one layer's contribution to a screen pixel before palette
// lookup. index 0 is transparent.
type layerPixel struct {
	index    uint8
	palette  uint8
	priority bool
}

func (p layerPixel) opaque() bool { return p.index != 0 }

// slot returns the offset of the pixel's color inside a 64-entry sub-palette.
func (p layerPixel) slot() int { return int(p.palette)*16 + int(p.index) }

// cellPixel samples pixel (px, py) of a cell, applying its flip bits.
func (t *Tables) cellPixel(c Cell, px, py int) layerPixel {
	if c.HFlip() {
		px = PatternWidth - 1 - px
	}
	if c.VFlip() {
		py = PatternHeight - 1 - py
	}
	pat := &t.patterns[c.Pattern()]
	return layerPixel{
		index:    pat.Pixel(px, py),
		palette:  c.Palette(),
		priority: c.Priority(),
	}
}

// planeCoord maps a screen pixel to plane pixel coordinates for plane A or B.
// Horizontal scroll is looked up per line and moves the plane right for
// positive values; vertical scroll is looked up per 16-pixel column. Both
// wrap at the plane size.
func (t *Tables) planeCoord(p Plane, x, y int) (int, int) {
	hs := int(t.hscroll[p][y%HScrollCount])
	vs := int(t.vscroll[p][(x/16)%VScrollCount])
	px := mod(x-hs, t.planeWidth*PatternWidth)
	py := mod(y+vs, t.planeHeight*PatternHeight)
	return px, py
}

// planePixel samples scrolled plane A or B at screen (x, y).
func (t *Tables) planePixel(p Plane, x, y int) layerPixel {
	px, py := t.planeCoord(p, x, y)
	c := t.cells[p][(py/PatternHeight)*PlaneMaxCells+px/PatternWidth]
	return t.cellPixel(c, px%PatternWidth, py%PatternHeight)
}
