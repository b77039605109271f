package vdp

// spritePixel walks the sprite chain from sprite 0 and returns the first
// opaque sprite pixel covering screen (x, y). The walk is bounded to
// SpriteCount hops so a chain that never links back to 0 still ends.
func (t *Tables) spritePixel(x, y int) layerPixel {
	idx := 0
	for hop := 0; hop < SpriteCount; hop++ {
		s := &t.sprites[idx]
		w := s.HCells()
		h := s.VCells()
		sx := x - s.ScreenX()
		sy := y - s.ScreenY()
		if sx >= 0 && sy >= 0 && sx < w*PatternWidth && sy < h*PatternHeight {
			if s.Attr.HFlip() {
				sx = w*PatternWidth - 1 - sx
			}
			if s.Attr.VFlip() {
				sy = h*PatternHeight - 1 - sy
			}
			// Sprite tiles are laid out column by column.
			col, row := sx/PatternWidth, sy/PatternHeight
			tile := (int(s.Attr.Pattern()) + col*h + row) & (PatternCount - 1)
			if i := t.patterns[tile].Pixel(sx%PatternWidth, sy%PatternHeight); i != 0 {
				return layerPixel{
					index:    i,
					palette:  s.Attr.Palette(),
					priority: s.Attr.Priority(),
				}
			}
		}
		next := int(s.Link())
		if next == 0 {
			break
		}
		idx = next
	}
	return layerPixel{}
}

// operator reports whether a sprite pixel is a shadow/highlight operator in
// intensity mode. Returns the brightness it imposes.
func (p layerPixel) operator() (brightness, bool) {
	if p.priority || p.palette != 3 {
		return brightnessNormal, false
	}
	switch p.index {
	case 14:
		return brightnessHighlight, true
	case 15:
		return brightnessShadow, true
	}
	return brightnessNormal, false
}
