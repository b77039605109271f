// Package texture packs vdp tables into RGBA images that a fragment shader
// can fetch from with integer texel addressing.
//
// Two images of the framebuffer size are produced. The data image holds the
// pattern atlas, palette, sprite list and scroll tables at fixed linear
// offsets; the plane image holds the three 128x128 cell grids. Texel i lives
// at (i % Width, i / Width). 16-bit values are stored with the low byte in R
// and the high byte in G.
package texture

import "github.com/user-none/emvdp/vdp"

// Image dimensions.
const (
	Width  = vdp.ScreenWidth
	Height = vdp.ScreenHeight
	Texels = Width * Height
)

// Linear texel offsets in the data image.
const (
	// Two texels per pattern row: bytes 0-1 then bytes 2-3.
	PatternBase = 0
	PaletteBase = PatternBase + vdp.PatternCount*vdp.PatternHeight*2
	// Four texels per sprite: Y, size/link, attribute, X.
	SpriteBase  = PaletteBase + vdp.PaletteSlots
	HScrollBase = SpriteBase + vdp.SpriteCount*4
	VScrollBase = HScrollBase + 2*vdp.HScrollCount
	DataEnd     = VScrollBase + 2*vdp.VScrollCount
)

// PlaneStride is the number of texels per plane in the plane image.
const PlaneStride = vdp.PlaneMaxCells * vdp.PlaneMaxCells

// Rows is a half-open range of image rows that changed.
type Rows struct {
	Lo, Hi int
}

// Empty reports whether no rows changed.
func (r Rows) Empty() bool { return r.Hi <= r.Lo }

func (r *Rows) addTexels(lo, hi int) {
	if hi <= lo {
		return
	}
	y0, y1 := lo/Width, (hi-1)/Width+1
	if r.Empty() {
		r.Lo, r.Hi = y0, y1
		return
	}
	r.Lo = min(r.Lo, y0)
	r.Hi = max(r.Hi, y1)
}

// Atlas owns the pixel data of both images.
type Atlas struct {
	Data   []byte
	Planes []byte
}

// New returns zeroed images with opaque alpha.
func New() *Atlas {
	a := &Atlas{
		Data:   make([]byte, Texels*4),
		Planes: make([]byte, Texels*4),
	}
	for i := 3; i < len(a.Data); i += 4 {
		a.Data[i] = 0xFF
		a.Planes[i] = 0xFF
	}
	return a
}

func put16(pix []byte, texel int, v uint16) {
	o := texel * 4
	pix[o] = uint8(v)
	pix[o+1] = uint8(v >> 8)
}

// Texel16 reads back a 16-bit texel.
func Texel16(pix []byte, texel int) uint16 {
	o := texel * 4
	return uint16(pix[o]) | uint16(pix[o+1])<<8
}

// Update copies the dirty parts of t into the images and returns the rows
// of each image that must be re-uploaded.
func (a *Atlas) Update(t *vdp.Tables, d vdp.Dirty) (data, planes Rows) {
	if s := d.Patterns; !s.Empty() {
		for i := s.Lo; i < s.Hi; i++ {
			p := t.Pattern(i)
			for row, w := range p {
				tx := PatternBase + (i*vdp.PatternHeight+row)*2
				put16(a.Data, tx, uint16(w))
				put16(a.Data, tx+1, uint16(w>>16))
			}
		}
		data.addTexels(PatternBase+s.Lo*vdp.PatternHeight*2, PatternBase+s.Hi*vdp.PatternHeight*2)
	}
	if s := d.Colors; !s.Empty() {
		for i := s.Lo; i < s.Hi; i++ {
			c := t.Color(i)
			o := (PaletteBase + i) * 4
			a.Data[o], a.Data[o+1], a.Data[o+2] = c.R, c.G, c.B
		}
		data.addTexels(PaletteBase+s.Lo, PaletteBase+s.Hi)
	}
	if s := d.Sprites; !s.Empty() {
		for i := s.Lo; i < s.Hi; i++ {
			sp := t.Sprite(i)
			tx := SpriteBase + i*4
			put16(a.Data, tx, sp.Y)
			put16(a.Data, tx+1, sp.Size)
			put16(a.Data, tx+2, uint16(sp.Attr))
			put16(a.Data, tx+3, sp.X)
		}
		data.addTexels(SpriteBase+s.Lo*4, SpriteBase+s.Hi*4)
	}
	for p := vdp.PlaneA; p <= vdp.PlaneB; p++ {
		if s := d.HScroll[p]; !s.Empty() {
			base := HScrollBase + int(p)*vdp.HScrollCount
			for i := s.Lo; i < s.Hi; i++ {
				put16(a.Data, base+i, uint16(t.HScroll(p, i)))
			}
			data.addTexels(base+s.Lo, base+s.Hi)
		}
		if s := d.VScroll[p]; !s.Empty() {
			base := VScrollBase + int(p)*vdp.VScrollCount
			for i := s.Lo; i < s.Hi; i++ {
				put16(a.Data, base+i, uint16(t.VScroll(p, i)))
			}
			data.addTexels(base+s.Lo, base+s.Hi)
		}
	}
	for p := vdp.PlaneA; p <= vdp.PlaneW; p++ {
		s := d.Cells[p]
		if s.Empty() {
			continue
		}
		base := int(p) * PlaneStride
		for y := s.Lo; y < s.Hi; y++ {
			for x, c := range t.CellRow(p, y) {
				put16(a.Planes, base+y*vdp.PlaneMaxCells+x, uint16(c))
			}
		}
		planes.addTexels(base+s.Lo*vdp.PlaneMaxCells, base+s.Hi*vdp.PlaneMaxCells)
	}
	return data, planes
}

// RowBytes returns the pixel bytes of rows r of an image.
func RowBytes(pix []byte, r Rows) []byte {
	return pix[r.Lo*Width*4 : r.Hi*Width*4]
}
