// Package emuios provides a gomobile-compatible interface to the scene player.
package emuios

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	emucore "github.com/user-none/eblitui/api"

	"github.com/user-none/emvdp/player"
	"github.com/user-none/emvdp/sceneloader"
)

// ExtractResult contains the result of scene extraction
type ExtractResult struct {
	Crc32    string // Hex string, e.g., "AABBCCDD"
	Filename string // Original filename from archive, e.g., "intro.vdps"
}

// currentEmu holds the player state (unexported)
var currentEmu *emulatorState

type emulatorState struct {
	emu       *player.Emulator
	frameData []byte
	audioData []byte
	stateData []byte
}

func regionFromCode(regionCode int) player.Region {
	if regionCode == 1 {
		return player.RegionPAL
	}
	return player.RegionNTSC
}

// InitFromPath creates a player from a scene file path.
// Automatically extracts from ZIP/7z/gzip/zstd/RAR if needed.
// regionCode: 0=NTSC, 1=PAL
// Returns true on success, false on error.
func InitFromPath(path string, regionCode int) bool {
	scene, _, err := sceneloader.Load(path)
	if err != nil {
		return false
	}
	return initScene(scene, regionCode)
}

// InitDemo creates a player for the built-in demo scene.
func InitDemo(regionCode int) bool {
	return initScene(nil, regionCode)
}

func initScene(scene []byte, regionCode int) bool {
	Close()
	e, err := player.NewEmulator(scene, regionFromCode(regionCode))
	if err != nil {
		return false
	}
	currentEmu = &emulatorState{emu: e}
	return true
}

// Close releases the player.
func Close() {
	if currentEmu != nil {
		currentEmu.emu.Close()
	}
	currentEmu = nil
}

// RunFrame renders one frame.
func RunFrame() {
	if currentEmu == nil {
		return
	}
	currentEmu.emu.RunFrame()
	currentEmu.frameData = currentEmu.emu.GetFramebuffer()

	// Convert audio samples to bytes
	samples := currentEmu.emu.GetAudioSamples()
	if len(samples) > 0 {
		currentEmu.audioData = make([]byte, len(samples)*2)
		for i, s := range samples {
			currentEmu.audioData[i*2] = byte(s)
			currentEmu.audioData[i*2+1] = byte(s >> 8)
		}
	} else {
		currentEmu.audioData = nil
	}
}

// FrameWidth returns the display width (always 320).
func FrameWidth() int {
	return player.ScreenWidth
}

// FrameHeight returns the display height (always 224).
func FrameHeight() int {
	return player.MaxScreenHeight
}

// GetFrameData returns the RGBA frame buffer.
func GetFrameData() []byte {
	if currentEmu == nil {
		return nil
	}
	return currentEmu.frameData
}

// GetAudioData returns the entire audio buffer.
func GetAudioData() []byte {
	if currentEmu == nil {
		return nil
	}
	return currentEmu.audioData
}

// SetInput sets controller state for a player.
func SetInput(port int, up, down, left, right, a, b, c, start bool) {
	if currentEmu == nil {
		return
	}
	var buttons uint32
	for bit, on := range map[int]bool{
		int(emucore.ButtonUp):    up,
		int(emucore.ButtonDown):  down,
		int(emucore.ButtonLeft):  left,
		int(emucore.ButtonRight): right,
		player.ButtonA:           a,
		player.ButtonB:           b,
		player.ButtonC:           c,
		player.ButtonStart:       start,
	} {
		if on {
			buttons |= 1 << bit
		}
	}
	currentEmu.emu.SetInput(port, buttons)
}

// SetWave turns the plane B line wave on or off.
func SetWave(on bool) {
	if currentEmu == nil {
		return
	}
	v := "false"
	if on {
		v = "true"
	}
	currentEmu.emu.SetOption(player.OptionWave, v)
}

// Region returns the current region (0=NTSC, 1=PAL).
func Region() int {
	if currentEmu == nil {
		return 0
	}
	if currentEmu.emu.GetRegion() == player.RegionPAL {
		return 1
	}
	return 0
}

// SaveState creates a save state. Returns true on success.
func SaveState() bool {
	if currentEmu == nil {
		return false
	}
	data, err := currentEmu.emu.Serialize()
	if err != nil {
		currentEmu.stateData = nil
		return false
	}
	currentEmu.stateData = data
	return true
}

// StateLen returns the length of the last saved state.
func StateLen() int {
	if currentEmu == nil {
		return 0
	}
	return len(currentEmu.stateData)
}

// StateByte returns a single byte from the saved state at index i.
func StateByte(i int) int {
	if currentEmu == nil || i < 0 || i >= len(currentEmu.stateData) {
		return 0
	}
	return int(currentEmu.stateData[i])
}

// LoadState loads a save state. Returns true on success.
func LoadState(data []byte) bool {
	if currentEmu == nil {
		return false
	}
	return currentEmu.emu.Deserialize(data) == nil
}

// GetFPS returns the target FPS for a region code.
func GetFPS(regionCode int) int {
	return player.GetTimingForRegion(regionFromCode(regionCode)).FPS
}

// GetCRC32FromPath calculates the CRC32 checksum of a scene file.
// Automatically extracts from archives if needed.
// Returns -1 on error.
func GetCRC32FromPath(path string) int64 {
	scene, _, err := sceneloader.Load(path)
	if err != nil {
		return -1
	}

	return int64(crc32.ChecksumIEEE(scene))
}

// ExtractAndStoreScene extracts a scene from an archive (or copies a raw
// scene), calculates its CRC32, and stores it as {destDir}/{CRC32}.vdps.
// If a file with the same CRC32 already exists, it skips writing.
// Returns the CRC32 and original filename on success, or an error.
func ExtractAndStoreScene(srcPath, destDir string) (*ExtractResult, error) {
	scene, filename, err := sceneloader.Load(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	crcHex := fmt.Sprintf("%08X", crc32.ChecksumIEEE(scene))
	destPath := filepath.Join(destDir, crcHex+sceneloader.SceneExt)

	// Same CRC = same content
	if _, err := os.Stat(destPath); err == nil {
		return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
	}

	if err := os.WriteFile(destPath, scene, 0644); err != nil {
		return nil, fmt.Errorf("failed to write scene: %w", err)
	}

	return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
}
