package vdp

// inWindowAxis applies the sign convention of one window coordinate.
func inWindowAxis(pos, coord int) bool {
	switch {
	case coord > 0:
		return pos < coord
	case coord < 0:
		return pos >= -coord
	}
	return false
}

// InWindow reports whether screen (x, y) lies in the window region. The
// region is the union of the horizontal and vertical bands.
func (t *Tables) InWindow(x, y int) bool {
	return inWindowAxis(x, t.windowX) || inWindowAxis(y, t.windowY)
}

// windowPixel samples the unscrolled window plane at screen (x, y).
func (t *Tables) windowPixel(x, y int) layerPixel {
	c := t.cells[PlaneW][(y/PatternHeight)*PlaneMaxCells+x/PatternWidth]
	return t.cellPixel(c, x%PatternWidth, y%PatternHeight)
}
