package vdp

type brightness int

const (
	brightnessShadow brightness = iota
	brightnessNormal
	brightnessHighlight
)

func (b brightness) base() int {
	switch b {
	case brightnessShadow:
		return ShadowBase
	case brightnessHighlight:
		return HighlightBase
	}
	return NormalBase
}

func (t *Tables) backdrop() layerPixel {
	return layerPixel{index: t.background & 15, palette: t.background >> 4}
}

func (t *Tables) lookup(p layerPixel, b brightness) Color {
	return t.colors[b.base()+p.slot()]
}

// Pixel resolves the color of screen pixel (x, y). It reads the tables only,
// so any set of pixels may be evaluated in any order or in parallel.
//
// Layer order from front to back: opaque window pixel, high-priority
// sprite, high-priority plane A, high-priority plane B, low-priority
// sprite, low-priority plane A, low-priority plane B, background. Plane A is
// not drawn inside the window region.
func (t *Tables) Pixel(x, y int) Color {
	var a layerPixel
	if t.InWindow(x, y) {
		if w := t.windowPixel(x, y); w.opaque() {
			b := brightnessNormal
			if t.mode == ModeIntensity && !w.priority {
				b = brightnessShadow
			}
			return t.lookup(w, b)
		}
	} else {
		a = t.planePixel(PlaneA, x, y)
	}
	b := t.planePixel(PlaneB, x, y)
	s := t.spritePixel(x, y)

	if t.mode == ModeIntensity {
		return t.composeIntensity(s, a, b)
	}
	return t.lookup(t.pick(s, a, b), brightnessNormal)
}

func (t *Tables) pick(s, a, b layerPixel) layerPixel {
	switch {
	case s.opaque() && s.priority:
		return s
	case a.opaque() && a.priority:
		return a
	case b.opaque() && b.priority:
		return b
	case s.opaque():
		return s
	case a.opaque():
		return a
	case b.opaque():
		return b
	}
	return t.backdrop()
}

// composeIntensity resolves a pixel in shadow/highlight mode. Everything
// starts shadowed; a high-priority winner is drawn at normal brightness and
// operator sprites brighten or darken the layer below them.
func (t *Tables) composeIntensity(s, a, b layerPixel) Color {
	switch {
	case s.opaque() && s.priority:
		return t.lookup(s, brightnessNormal)
	case a.opaque() && a.priority:
		return t.lookup(a, brightnessNormal)
	case b.opaque() && b.priority:
		return t.lookup(b, brightnessNormal)
	case s.opaque():
		if br, ok := s.operator(); ok {
			under := t.backdrop()
			switch {
			case a.opaque():
				under = a
			case b.opaque():
				under = b
			}
			return t.lookup(under, br)
		}
		if s.palette == 3 {
			return t.lookup(s, brightnessNormal)
		}
		return t.lookup(s, brightnessShadow)
	case a.opaque():
		return t.lookup(a, brightnessShadow)
	case b.opaque():
		return t.lookup(b, brightnessShadow)
	}
	return t.lookup(t.backdrop(), brightnessShadow)
}
