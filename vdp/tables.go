package vdp

// Span is a half-open range [Lo, Hi) of table entries touched since the last
// TakeDirty. An empty span has Hi <= Lo.
type Span struct {
	Lo, Hi int
}

// Empty reports whether the span covers nothing.
func (s Span) Empty() bool { return s.Hi <= s.Lo }

func (s *Span) add(lo, hi int) {
	if hi <= lo {
		return
	}
	if s.Empty() {
		s.Lo, s.Hi = lo, hi
		return
	}
	if lo < s.Lo {
		s.Lo = lo
	}
	if hi > s.Hi {
		s.Hi = hi
	}
}

// Dirty records which parts of the tables changed. GPU backends use it to
// re-upload only touched regions.
type Dirty struct {
	Params   bool
	Colors   Span
	Patterns Span
	Sprites  Span
	Cells    [PlaneCount]Span // rows of the 128-wide cell grid
	HScroll  [2]Span
	VScroll  [2]Span
}

// Any reports whether anything is dirty.
func (d *Dirty) Any() bool {
	if d.Params || !d.Colors.Empty() || !d.Patterns.Empty() || !d.Sprites.Empty() {
		return true
	}
	for _, s := range d.Cells {
		if !s.Empty() {
			return true
		}
	}
	for i := 0; i < 2; i++ {
		if !d.HScroll[i].Empty() || !d.VScroll[i].Empty() {
			return true
		}
	}
	return false
}

func (d *Dirty) all() {
	d.Params = true
	d.Colors = Span{0, PaletteSlots}
	d.Patterns = Span{0, PatternCount}
	d.Sprites = Span{0, SpriteCount}
	for i := range d.Cells {
		d.Cells[i] = Span{0, PlaneMaxCells}
	}
	for i := 0; i < 2; i++ {
		d.HScroll[i] = Span{0, HScrollCount}
		d.VScroll[i] = Span{0, VScrollCount}
	}
}

// Tables is the CPU-side copy of every resource table. It implements the
// table-writing half of Device and is the input of the compositor.
type Tables struct {
	mode        Mode
	background  uint8
	planeWidth  int
	planeHeight int
	windowX     int
	windowY     int

	colors   [PaletteSlots]Color
	patterns [PatternCount]Pattern
	sprites  [SpriteCount]Sprite
	cells    [PlaneCount][PlaneMaxCells * PlaneMaxCells]Cell
	hscroll  [2][HScrollCount]int16
	vscroll  [2][VScrollCount]int16

	dirty Dirty
}

// NewTables returns zeroed tables with 32x32 planes, all marked dirty.
func NewTables() *Tables {
	t := &Tables{planeWidth: 32, planeHeight: 32}
	t.dirty.all()
	return t
}

// clipWrite bounds a write of n entries at start to [0, capacity). It
// returns the destination index, the offset into the source and the count.
func clipWrite(start, n, capacity int) (dst, src, count int) {
	if start < 0 {
		src = -start
		start = 0
	}
	count = n - src
	if start+count > capacity {
		count = capacity - start
	}
	if count <= 0 {
		return 0, 0, 0
	}
	return start, src, count
}

func (t *Tables) SetMode(m Mode) {
	if m != ModeIntensity {
		m = ModeNormal
	}
	t.mode = m
	t.dirty.Params = true
}

func (t *Tables) SetBackgroundColor(index int) {
	t.background = uint8(index) & (ColorCount - 1)
	t.dirty.Params = true
}

// SetPlaneSize sets the dimensions, in cells, shared by planes A and B.
func (t *Tables) SetPlaneSize(width, height int) {
	t.planeWidth = validPlaneSize(width)
	t.planeHeight = validPlaneSize(height)
	t.dirty.Params = true
}

// SetWindowCoord sets the window boundaries in pixels. A positive value
// anchors the window to the left (top) edge, a negative one to the right
// (bottom) edge, and zero disables that axis.
func (t *Tables) SetWindowCoord(x, y int) {
	t.windowX = x
	t.windowY = y
	t.dirty.Params = true
}

// SetColors writes palette slots directly.
func (t *Tables) SetColors(start int, colors []Color) {
	dst, src, n := clipWrite(start, len(colors), PaletteSlots)
	copy(t.colors[dst:dst+n], colors[src:src+n])
	t.dirty.Colors.add(dst, dst+n)
}

// SetColorsSH writes colors to the normal sub-palette and derives the
// shadow and highlight entries at start+0 and start+128.
func (t *Tables) SetColorsSH(start int, colors []Color) {
	shadow, highlight := ShadowHighlight(colors)
	t.SetColors(start+ShadowBase, shadow)
	t.SetColors(start+NormalBase, colors)
	t.SetColors(start+HighlightBase, highlight)
}

func (t *Tables) SetPatterns(start int, patterns []Pattern) {
	dst, src, n := clipWrite(start, len(patterns), PatternCount)
	copy(t.patterns[dst:dst+n], patterns[src:src+n])
	t.dirty.Patterns.add(dst, dst+n)
}

func (t *Tables) SetSprites(start int, sprites []Sprite) {
	dst, src, n := clipWrite(start, len(sprites), SpriteCount)
	copy(t.sprites[dst:dst+n], sprites[src:src+n])
	t.dirty.Sprites.add(dst, dst+n)
}

// SetCells writes a w x h rectangle of cells, row-major, at (x, y) of the
// plane's 128x128 grid.
func (t *Tables) SetCells(plane Plane, x, y, w, h int, cells []Cell) {
	if plane < PlaneA || plane > PlaneW || w <= 0 || h <= 0 {
		return
	}
	grid := &t.cells[plane]
	cx, sx, cw := clipWrite(x, w, PlaneMaxCells)
	cy, sy, ch := clipWrite(y, h, PlaneMaxCells)
	if cw == 0 || ch == 0 {
		return
	}
	for row := 0; row < ch; row++ {
		off := (sy+row)*w + sx
		if off >= len(cells) {
			ch = row
			break
		}
		n := cw
		if off+n > len(cells) {
			n = len(cells) - off
		}
		d := (cy+row)*PlaneMaxCells + cx
		copy(grid[d:d+n], cells[off:off+n])
	}
	t.dirty.Cells[plane].add(cy, cy+ch)
}

// SetHScroll writes per-line horizontal scroll values for plane A or B.
func (t *Tables) SetHScroll(plane Plane, start int, values []int16) {
	if plane != PlaneA && plane != PlaneB {
		return
	}
	dst, src, n := clipWrite(start, len(values), HScrollCount)
	copy(t.hscroll[plane][dst:dst+n], values[src:src+n])
	t.dirty.HScroll[plane].add(dst, dst+n)
}

// SetVScroll writes per-16-pixel-column vertical scroll values for plane A or B.
func (t *Tables) SetVScroll(plane Plane, start int, values []int16) {
	if plane != PlaneA && plane != PlaneB {
		return
	}
	dst, src, n := clipWrite(start, len(values), VScrollCount)
	copy(t.vscroll[plane][dst:dst+n], values[src:src+n])
	t.dirty.VScroll[plane].add(dst, dst+n)
}

// Render is a no-op: Tables are only a data store.
func (t *Tables) Render() error { return nil }

func (t *Tables) Mode() Mode                   { return t.mode }
func (t *Tables) BackgroundColor() int         { return int(t.background) }
func (t *Tables) PlaneSize() (w, h int)        { return t.planeWidth, t.planeHeight }
func (t *Tables) WindowCoord() (x, y int)      { return t.windowX, t.windowY }
func (t *Tables) Color(i int) Color            { return t.colors[i] }
func (t *Tables) Pattern(i int) Pattern        { return t.patterns[i] }
func (t *Tables) Sprite(i int) Sprite          { return t.sprites[i] }
func (t *Tables) HScroll(p Plane, i int) int16 { return t.hscroll[p][i] }
func (t *Tables) VScroll(p Plane, i int) int16 { return t.vscroll[p][i] }

// Cell returns the cell at (x, y) of the plane's 128x128 grid.
func (t *Tables) Cell(p Plane, x, y int) Cell {
	return t.cells[p][y*PlaneMaxCells+x]
}

// CellRow returns one 128-cell row of a plane grid.
func (t *Tables) CellRow(p Plane, y int) []Cell {
	return t.cells[p][y*PlaneMaxCells : (y+1)*PlaneMaxCells]
}

// TakeDirty returns the accumulated dirty ranges and clears them.
func (t *Tables) TakeDirty() Dirty {
	d := t.dirty
	t.dirty = Dirty{}
	return d
}

// MarkAllDirty forces the next TakeDirty to report every table.
func (t *Tables) MarkAllDirty() {
	t.dirty.all()
}

// Apply replays the complete table state onto d.
func (t *Tables) Apply(d Device) {
	d.SetMode(t.mode)
	d.SetBackgroundColor(int(t.background))
	d.SetPlaneSize(t.planeWidth, t.planeHeight)
	d.SetWindowCoord(t.windowX, t.windowY)
	d.SetColors(0, t.colors[:])
	d.SetPatterns(0, t.patterns[:])
	d.SetSprites(0, t.sprites[:])
	for p := PlaneA; p <= PlaneW; p++ {
		d.SetCells(p, 0, 0, PlaneMaxCells, PlaneMaxCells, t.cells[p][:])
	}
	for p := PlaneA; p <= PlaneB; p++ {
		d.SetHScroll(p, 0, t.hscroll[p][:])
		d.SetVScroll(p, 0, t.vscroll[p][:])
	}
}

// ApplyDirty replays only the ranges recorded in dirty onto d. Parameters
// are always written.
func (t *Tables) ApplyDirty(d Device, dirty Dirty) {
	if dirty.Params {
		d.SetMode(t.mode)
		d.SetBackgroundColor(int(t.background))
		d.SetPlaneSize(t.planeWidth, t.planeHeight)
		d.SetWindowCoord(t.windowX, t.windowY)
	}
	if s := dirty.Colors; !s.Empty() {
		d.SetColors(s.Lo, t.colors[s.Lo:s.Hi])
	}
	if s := dirty.Patterns; !s.Empty() {
		d.SetPatterns(s.Lo, t.patterns[s.Lo:s.Hi])
	}
	if s := dirty.Sprites; !s.Empty() {
		d.SetSprites(s.Lo, t.sprites[s.Lo:s.Hi])
	}
	for p := PlaneA; p <= PlaneW; p++ {
		if s := dirty.Cells[p]; !s.Empty() {
			d.SetCells(p, 0, s.Lo, PlaneMaxCells, s.Hi-s.Lo, t.cells[p][s.Lo*PlaneMaxCells:s.Hi*PlaneMaxCells])
		}
	}
	for p := PlaneA; p <= PlaneB; p++ {
		if s := dirty.HScroll[p]; !s.Empty() {
			d.SetHScroll(p, s.Lo, t.hscroll[p][s.Lo:s.Hi])
		}
		if s := dirty.VScroll[p]; !s.Empty() {
			d.SetVScroll(p, s.Lo, t.vscroll[p][s.Lo:s.Hi])
		}
	}
}

// CopyFrom overwrites t with the contents of src and marks everything dirty.
func (t *Tables) CopyFrom(src *Tables) {
	*t = *src
	t.dirty.all()
}
