package vdp

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Snapshot format constants
const (
	snapshotVersion    = 1
	snapshotMagic      = "EMVDPScene"
	snapshotHeaderSize = 16 // magic(10) + version(2) + dataCRC(4)
)

// SnapshotSize is the exact size in bytes of a serialized snapshot.
const SnapshotSize = snapshotHeaderSize +
	10 + // mode, background, plane size, window coord
	PaletteSlots*3 +
	PatternCount*PatternSize +
	SpriteCount*SpriteSize +
	PlaneCount*PlaneMaxCells*PlaneMaxCells*CellSize +
	2*HScrollCount*2 +
	2*VScrollCount*2

var (
	ErrSnapshotShort   = errors.New("snapshot too short")
	ErrSnapshotMagic   = errors.New("invalid snapshot magic")
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
	ErrSnapshotCorrupt = errors.New("snapshot data is corrupted")
)

// Serialize writes the complete table state.
func Serialize(t *Tables) []byte {
	data := make([]byte, SnapshotSize)
	copy(data[0:10], snapshotMagic)
	binary.LittleEndian.PutUint16(data[10:12], snapshotVersion)

	off := snapshotHeaderSize
	data[off] = uint8(t.mode)
	data[off+1] = t.background
	binary.LittleEndian.PutUint16(data[off+2:], uint16(t.planeWidth))
	binary.LittleEndian.PutUint16(data[off+4:], uint16(t.planeHeight))
	binary.LittleEndian.PutUint16(data[off+6:], uint16(int16(t.windowX)))
	binary.LittleEndian.PutUint16(data[off+8:], uint16(int16(t.windowY)))
	off += 10

	for _, c := range t.colors {
		data[off], data[off+1], data[off+2] = c.R, c.G, c.B
		off += 3
	}
	for i := range t.patterns {
		for _, row := range t.patterns[i] {
			binary.LittleEndian.PutUint32(data[off:], row)
			off += 4
		}
	}
	for _, s := range t.sprites {
		binary.LittleEndian.PutUint16(data[off:], s.Y)
		binary.LittleEndian.PutUint16(data[off+2:], s.Size)
		binary.LittleEndian.PutUint16(data[off+4:], uint16(s.Attr))
		binary.LittleEndian.PutUint16(data[off+6:], s.X)
		off += SpriteSize
	}
	for p := range t.cells {
		for _, c := range t.cells[p] {
			binary.LittleEndian.PutUint16(data[off:], uint16(c))
			off += 2
		}
	}
	off = putScroll(data, off, t.hscroll[0][:])
	off = putScroll(data, off, t.hscroll[1][:])
	off = putScroll(data, off, t.vscroll[0][:])
	putScroll(data, off, t.vscroll[1][:])

	binary.LittleEndian.PutUint32(data[12:16], crc32.ChecksumIEEE(data[snapshotHeaderSize:]))
	return data
}

func putScroll(data []byte, off int, values []int16) int {
	for _, v := range values {
		binary.LittleEndian.PutUint16(data[off:], uint16(v))
		off += 2
	}
	return off
}

func getScroll(data []byte, off int, values []int16) int {
	for i := range values {
		values[i] = int16(binary.LittleEndian.Uint16(data[off:]))
		off += 2
	}
	return off
}

// VerifySnapshot checks a snapshot without loading it.
func VerifySnapshot(data []byte) error {
	if len(data) < SnapshotSize {
		return ErrSnapshotShort
	}
	if string(data[0:10]) != snapshotMagic {
		return ErrSnapshotMagic
	}
	if binary.LittleEndian.Uint16(data[10:12]) > snapshotVersion {
		return ErrSnapshotVersion
	}
	if binary.LittleEndian.Uint32(data[12:16]) != crc32.ChecksumIEEE(data[snapshotHeaderSize:SnapshotSize]) {
		return ErrSnapshotCorrupt
	}
	return nil
}

// Deserialize loads a snapshot into t. t is left untouched on error and
// fully marked dirty on success.
func Deserialize(t *Tables, data []byte) error {
	if err := VerifySnapshot(data); err != nil {
		return err
	}

	off := snapshotHeaderSize
	t.SetMode(Mode(data[off]))
	t.SetBackgroundColor(int(data[off+1]))
	t.SetPlaneSize(int(binary.LittleEndian.Uint16(data[off+2:])), int(binary.LittleEndian.Uint16(data[off+4:])))
	t.SetWindowCoord(
		int(int16(binary.LittleEndian.Uint16(data[off+6:]))),
		int(int16(binary.LittleEndian.Uint16(data[off+8:]))),
	)
	off += 10

	for i := range t.colors {
		t.colors[i] = Color{R: data[off], G: data[off+1], B: data[off+2]}
		off += 3
	}
	for i := range t.patterns {
		for row := range t.patterns[i] {
			t.patterns[i][row] = binary.LittleEndian.Uint32(data[off:])
			off += 4
		}
	}
	for i := range t.sprites {
		t.sprites[i] = Sprite{
			Y:    binary.LittleEndian.Uint16(data[off:]),
			Size: binary.LittleEndian.Uint16(data[off+2:]),
			Attr: Cell(binary.LittleEndian.Uint16(data[off+4:])),
			X:    binary.LittleEndian.Uint16(data[off+6:]),
		}
		off += SpriteSize
	}
	for p := range t.cells {
		for i := range t.cells[p] {
			t.cells[p][i] = Cell(binary.LittleEndian.Uint16(data[off:]))
			off += 2
		}
	}
	off = getScroll(data, off, t.hscroll[0][:])
	off = getScroll(data, off, t.hscroll[1][:])
	off = getScroll(data, off, t.vscroll[0][:])
	getScroll(data, off, t.vscroll[1][:])

	t.dirty.all()
	return nil
}
