//go:build !libretro && !ios

package opengl

import "github.com/user-none/emvdp/vdp"

// stage holds client-side copies of table ranges in the layouts the GL
// textures expect. Buffers are reused between uploads.
type stage struct {
	colors   []uint8
	patterns []uint32
	sprites  []uint16
	cells    []uint16
	scroll   []uint16
}

func grow[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

// colorRange packs colors [lo, hi) as RGBA8.
func (s *stage) colorRange(t *vdp.Tables, lo, hi int) []uint8 {
	s.colors = grow(s.colors, (hi-lo)*4)
	for i := lo; i < hi; i++ {
		c := t.Color(i)
		o := (i - lo) * 4
		s.colors[o] = c.R
		s.colors[o+1] = c.G
		s.colors[o+2] = c.B
		s.colors[o+3] = 0xFF
	}
	return s.colors
}

// patternRange packs patterns [lo, hi) as one R32UI texel per row.
func (s *stage) patternRange(t *vdp.Tables, lo, hi int) []uint32 {
	s.patterns = grow(s.patterns, (hi-lo)*vdp.PatternHeight)
	for i := lo; i < hi; i++ {
		p := t.Pattern(i)
		copy(s.patterns[(i-lo)*vdp.PatternHeight:], p[:])
	}
	return s.patterns
}

// spriteRange packs sprites [lo, hi) as RGBA16UI texels (Y, size, attr, X).
func (s *stage) spriteRange(t *vdp.Tables, lo, hi int) []uint16 {
	s.sprites = grow(s.sprites, (hi-lo)*4)
	for i := lo; i < hi; i++ {
		sp := t.Sprite(i)
		o := (i - lo) * 4
		s.sprites[o] = sp.Y
		s.sprites[o+1] = sp.Size
		s.sprites[o+2] = uint16(sp.Attr)
		s.sprites[o+3] = sp.X
	}
	return s.sprites
}

// cellRows packs full-width cell rows [lo, hi) of a plane.
func (s *stage) cellRows(t *vdp.Tables, p vdp.Plane, lo, hi int) []uint16 {
	s.cells = grow(s.cells, (hi-lo)*vdp.PlaneMaxCells)
	for y := lo; y < hi; y++ {
		row := s.cells[(y-lo)*vdp.PlaneMaxCells:]
		for x, c := range t.CellRow(p, y) {
			row[x] = uint16(c)
		}
	}
	return s.cells
}

// scrollRange packs scroll entries [lo, hi) as R16UI texels.
func (s *stage) scrollRange(get func(vdp.Plane, int) int16, p vdp.Plane, lo, hi int) []uint16 {
	s.scroll = grow(s.scroll, hi-lo)
	for i := lo; i < hi; i++ {
		s.scroll[i-lo] = uint16(get(p, i))
	}
	return s.scroll
}
