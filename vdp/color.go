package vdp

import "image/color"

// Color is an 8-bit per channel palette entry.
type Color struct {
	R, G, B uint8
}

// RGBA returns the color as an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Shadow returns the half-intensity variant.
func (c Color) Shadow() Color {
	return Color{R: c.R / 2, G: c.G / 2, B: c.B / 2}
}

// Highlight returns the half-intensity variant raised by 128. c/2 is at most
// 127, so the sum always fits in 8 bits.
func (c Color) Highlight() Color {
	return Color{R: c.R/2 + 128, G: c.G/2 + 128, B: c.B/2 + 128}
}

// expand3 widens a 3-bit hardware channel to 8 bits.
func expand3(v uint16) uint8 {
	v &= 7
	return uint8(v<<5 | v<<2 | v>>1)
}

// ColorFromCRAM converts a hardware color word (----BBB-GGG-RRR-) to Color.
func ColorFromCRAM(word uint16) Color {
	return Color{
		R: expand3(word >> 1),
		G: expand3(word >> 5),
		B: expand3(word >> 9),
	}
}

// ShadowHighlight derives the shadow and highlight sub-palettes from base.
func ShadowHighlight(base []Color) (shadow, highlight []Color) {
	shadow = make([]Color, len(base))
	highlight = make([]Color, len(base))
	for i, c := range base {
		shadow[i] = c.Shadow()
		highlight[i] = c.Highlight()
	}
	return shadow, highlight
}
