package vdp

import (
	"encoding/binary"
	"errors"
)

// Cell is a packed tile reference used by plane cells and sprite attributes.
//
//	bits 0-10  pattern index
//	bit  11    horizontal flip
//	bit  12    vertical flip
//	bits 13-14 palette
//	bit  15    priority
type Cell uint16

const (
	cellPatternMask = 0x07FF
	cellHFlip       = 1 << 11
	cellVFlip       = 1 << 12
	cellPalShift    = 13
	cellPriority    = 1 << 15
)

// NewCell packs the cell fields.
func NewCell(pattern uint16, palette uint8, hflip, vflip, priority bool) Cell {
	c := Cell(pattern&cellPatternMask) | Cell(palette&3)<<cellPalShift
	if hflip {
		c |= cellHFlip
	}
	if vflip {
		c |= cellVFlip
	}
	if priority {
		c |= cellPriority
	}
	return c
}

func (c Cell) Pattern() uint16 { return uint16(c) & cellPatternMask }
func (c Cell) HFlip() bool     { return c&cellHFlip != 0 }
func (c Cell) VFlip() bool     { return c&cellVFlip != 0 }
func (c Cell) Palette() uint8  { return uint8(c>>cellPalShift) & 3 }
func (c Cell) Priority() bool  { return c&cellPriority != 0 }

// Sprite is one entry of the sprite attribute list. X and Y carry the
// SpriteOffset bias.
//
//	Size bits 0-7 link, bits 8-9 vertical cells-1, bits 10-11 horizontal cells-1
type Sprite struct {
	Y    uint16
	Size uint16
	Attr Cell
	X    uint16
}

// NewSprite builds a sprite whose top-left corner is at screen (x, y).
// w and h are in cells (1-4).
func NewSprite(x, y, w, h int, link uint8, attr Cell) Sprite {
	return Sprite{
		Y:    uint16(y + SpriteOffset),
		Size: uint16(link) | uint16((h-1)&3)<<8 | uint16((w-1)&3)<<10,
		Attr: attr,
		X:    uint16(x + SpriteOffset),
	}
}

// Link is the index of the next sprite in draw order; 0 ends the chain.
func (s Sprite) Link() uint8 { return uint8(s.Size) & (SpriteCount - 1) }

// HCells is the width in cells.
func (s Sprite) HCells() int { return int(s.Size>>10&3) + 1 }

// VCells is the height in cells.
func (s Sprite) VCells() int { return int(s.Size>>8&3) + 1 }

// ScreenX returns the left edge in screen coordinates.
func (s Sprite) ScreenX() int { return int(s.X&0x1FF) - SpriteOffset }

// ScreenY returns the top edge in screen coordinates.
func (s Sprite) ScreenY() int { return int(s.Y&0x3FF) - SpriteOffset }

// Pattern is one 8x8 tile. Each row is a word holding eight 4-bit pixels.
// In memory order the left pixel is the high nibble of the first byte, so
// with little-endian words pixel px sits at bit (px^1)*4.
type Pattern [PatternHeight]uint32

// Pixel returns the color index at (px, py).
func (p *Pattern) Pixel(px, py int) uint8 {
	return uint8(p[py]>>(uint(px^1)*4)) & 0xF
}

// PackPatternRow packs eight color indices, left to right, into a row word.
func PackPatternRow(pixels [PatternWidth]uint8) uint32 {
	var w uint32
	for px, v := range pixels {
		w |= uint32(v&0xF) << (uint(px^1) * 4)
	}
	return w
}

// Record sizes in packed asset data.
const (
	CellSize    = 2
	SpriteSize  = 8
	PatternSize = PatternHeight * 4
)

// ErrShortData is returned when packed data is not a whole number of records.
var ErrShortData = errors.New("packed data is not a whole number of records")

// DecodeCells reads little-endian packed cells.
func DecodeCells(b []byte) ([]Cell, error) {
	if len(b)%CellSize != 0 {
		return nil, ErrShortData
	}
	cells := make([]Cell, len(b)/CellSize)
	for i := range cells {
		cells[i] = Cell(binary.LittleEndian.Uint16(b[i*CellSize:]))
	}
	return cells, nil
}

// DecodeSprites reads little-endian packed sprite records.
func DecodeSprites(b []byte) ([]Sprite, error) {
	if len(b)%SpriteSize != 0 {
		return nil, ErrShortData
	}
	sprites := make([]Sprite, len(b)/SpriteSize)
	for i := range sprites {
		r := b[i*SpriteSize:]
		sprites[i] = Sprite{
			Y:    binary.LittleEndian.Uint16(r[0:]),
			Size: binary.LittleEndian.Uint16(r[2:]),
			Attr: Cell(binary.LittleEndian.Uint16(r[4:])),
			X:    binary.LittleEndian.Uint16(r[6:]),
		}
	}
	return sprites, nil
}

// DecodePatterns reads tiles stored as 32 bytes each, four bytes per row.
func DecodePatterns(b []byte) ([]Pattern, error) {
	if len(b)%PatternSize != 0 {
		return nil, ErrShortData
	}
	patterns := make([]Pattern, len(b)/PatternSize)
	for i := range patterns {
		for row := 0; row < PatternHeight; row++ {
			patterns[i][row] = binary.LittleEndian.Uint32(b[i*PatternSize+row*4:])
		}
	}
	return patterns, nil
}

// EncodeCells is the inverse of DecodeCells.
func EncodeCells(cells []Cell) []byte {
	b := make([]byte, len(cells)*CellSize)
	for i, c := range cells {
		binary.LittleEndian.PutUint16(b[i*CellSize:], uint16(c))
	}
	return b
}
