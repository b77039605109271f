package vdp

var (
	black = Color{0, 0, 0}
	red   = Color{255, 0, 0}
	green = Color{0, 255, 0}
	blue  = Color{0, 0, 255}
)

// solidPattern returns a tile filled with one color index.
func solidPattern(index uint8) Pattern {
	row := PackPatternRow([PatternWidth]uint8{index, index, index, index, index, index, index, index})
	var p Pattern
	for i := range p {
		p[i] = row
	}
	return p
}

// newTestTables returns tables with palette 0 colors 5, 6, 7 set to red,
// green and blue, and patterns 1, 2, 3 solid in those colors.
func newTestTables() *Tables {
	t := NewTables()
	pal := make([]Color, 16)
	pal[5] = red
	pal[6] = green
	pal[7] = blue
	t.SetColorsSH(0, pal)
	t.SetPatterns(1, []Pattern{solidPattern(5), solidPattern(6), solidPattern(7)})
	return t
}

// fillCells returns w*h copies of c.
func fillCells(c Cell, w, h int) []Cell {
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = c
	}
	return cells
}
