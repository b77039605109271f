package player

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/user-none/emvdp/vdp"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "emVDPPlayerS"
	stateHeaderSize = 22 // magic(12) + version(2) + sceneCRC(4) + dataCRC(4)
	overlaySize     = 4*2 + 1
)

// Overlay flag bits.
const (
	flagMode = 1 << iota
	flagWindow
	flagWave
)

// SerializeSize returns the total size in bytes needed for a save state.
func SerializeSize() int {
	return stateHeaderSize + // 22
		overlaySize + // scroll offsets + toggles
		vdp.SnapshotSize // render tables
}

// Serialize creates a save state and returns it as a byte slice.
func (e *Emulator) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], e.sceneCRC)

	offset := stateHeaderSize
	offset = e.serializeOverlay(data, offset)
	copy(data[offset:], vdp.Serialize(e.ctx.Tables))

	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores player state from a save state byte slice.
// Region is not restored.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize + overlaySize
	if err := vdp.Deserialize(e.ctx.Tables, data[offset:offset+vdp.SnapshotSize]); err != nil {
		return err
	}
	e.deserializeOverlay(data, stateHeaderSize)
	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	if len(data) < SerializeSize() {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	sceneCRC := binary.LittleEndian.Uint32(data[14:18])
	if sceneCRC != e.sceneCRC {
		return errors.New("save state is for a different scene")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}

func (e *Emulator) serializeOverlay(data []byte, offset int) int {
	o := e.overlay
	for p := vdp.PlaneA; p <= vdp.PlaneB; p++ {
		binary.LittleEndian.PutUint16(data[offset:], uint16(int16(o.dx[p])))
		binary.LittleEndian.PutUint16(data[offset+2:], uint16(int16(o.dy[p])))
		offset += 4
	}
	var flags byte
	if o.modeToggled {
		flags |= flagMode
	}
	if o.windowToggled {
		flags |= flagWindow
	}
	if o.wave {
		flags |= flagWave
	}
	data[offset] = flags
	return offset + 1
}

func (e *Emulator) deserializeOverlay(data []byte, offset int) int {
	var dx, dy [2]int
	for p := vdp.PlaneA; p <= vdp.PlaneB; p++ {
		dx[p] = int(int16(binary.LittleEndian.Uint16(data[offset:])))
		dy[p] = int(int16(binary.LittleEndian.Uint16(data[offset+2:])))
		offset += 4
	}
	flags := data[offset]
	e.overlay.restore(dx, dy, flags&flagMode != 0, flags&flagWindow != 0, flags&flagWave != 0)
	return offset + 1
}
