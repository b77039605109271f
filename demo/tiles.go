package demo

import "github.com/user-none/emvdp/vdp"

// Pattern indices installed by Build.
const (
	PatternBlank = 0
	PatternBevel = 1
	PatternDisc  = 2 // 16 tiles, 4x4 sprite, column-major
	PatternBar   = PatternDisc + 16
	PatternCount = PatternBar + 1
)

// bevelTile is a raised block: light top/left edge (2), dark bottom/right
// edge (3), face color 1 and a transparent 2x2 hole in the middle.
func bevelTile() vdp.Pattern {
	var p vdp.Pattern
	for y := 0; y < vdp.PatternHeight; y++ {
		var row [vdp.PatternWidth]uint8
		for x := range row {
			switch {
			case (x == 3 || x == 4) && (y == 3 || y == 4):
				row[x] = 0
			case x == 0 || y == 0:
				row[x] = 2
			case x == 7 || y == 7:
				row[x] = 3
			default:
				row[x] = 1
			}
		}
		p[y] = vdp.PackPatternRow(row)
	}
	return p
}

// discTiles builds a 32x32 disc split into 16 tiles in sprite order. The
// left half of the disc uses color 14 and the right half color 15, which
// act as highlight and shadow operators on palette 3 in intensity mode.
// The rim uses color 1.
func discTiles() []vdp.Pattern {
	const size = 32
	var img [size][size]uint8
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := 2*x-size+1, 2*y-size+1
			d := dx*dx + dy*dy
			switch {
			case d < 26*26:
				if x < size/2 {
					img[y][x] = 14
				} else {
					img[y][x] = 15
				}
			case d < 31*31:
				img[y][x] = 1
			}
		}
	}

	tiles := make([]vdp.Pattern, 16)
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			t := &tiles[col*4+row]
			for y := 0; y < vdp.PatternHeight; y++ {
				var line [vdp.PatternWidth]uint8
				copy(line[:], img[row*8+y][col*8:col*8+8])
				t[y] = vdp.PackPatternRow(line)
			}
		}
	}
	return tiles
}

// solidTile fills a tile with one color index.
func solidTile(index uint8) vdp.Pattern {
	row := vdp.PackPatternRow([vdp.PatternWidth]uint8{index, index, index, index, index, index, index, index})
	var p vdp.Pattern
	for y := range p {
		p[y] = row
	}
	return p
}

// Patterns returns every tile of the demo scene starting at index 0.
func Patterns() []vdp.Pattern {
	p := make([]vdp.Pattern, 0, PatternCount)
	p = append(p, vdp.Pattern{}, bevelTile())
	p = append(p, discTiles()...)
	p = append(p, solidTile(4))
	return p
}

// Palette returns the 64 base colors of the demo scene.
func Palette() []vdp.Color {
	pal := make([]vdp.Color, vdp.ColorCount)
	pal[0] = vdp.Color{R: 0x80, G: 0x80, B: 0x80}

	pal[1] = vdp.Color{B: 0x80}
	pal[2] = vdp.Color{R: 0x40, G: 0x40, B: 0xC0}
	pal[3] = vdp.Color{B: 0x40}
	pal[4] = vdp.Color{R: 0x20, G: 0x20, B: 0x20}

	pal[17] = vdp.Color{R: 0x80}
	pal[18] = vdp.Color{R: 0xC0, G: 0x40, B: 0x40}
	pal[19] = vdp.Color{R: 0x40}

	pal[33] = vdp.Color{G: 0x80, B: 0x80}
	pal[46] = vdp.Color{G: 0x80}
	pal[47] = vdp.Color{G: 0x80}

	pal[49] = vdp.Color{G: 0x80, B: 0x80}
	return pal
}
