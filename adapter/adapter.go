package adapter

import (
	emucore "github.com/user-none/eblitui/api"

	"github.com/user-none/emvdp/player"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the scene player.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emvdp",
		ConsoleName:     "VDP Scene Player",
		Extensions:      []string{".vdps"},
		ScreenWidth:     player.ScreenWidth,
		MaxScreenHeight: player.MaxScreenHeight,
		AspectRatio:     320.0 / 224.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "A", ID: player.ButtonA, DefaultKey: "J", DefaultPad: "A"},
			{Name: "B", ID: player.ButtonB, DefaultKey: "K", DefaultPad: "B"},
			{Name: "C", ID: player.ButtonC, DefaultKey: "L", DefaultPad: "X"},
			{Name: "Start", ID: player.ButtonStart, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 2,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         player.OptionWave,
				Label:       "Line Wave",
				Description: "Offset plane B per scanline with a sine wave",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		DataDirName:   "emvdp",
		CoreName:      player.Name,
		CoreVersion:   player.Version,
		SerializeSize: player.SerializeSize(),
	}
}

// CreateEmulator creates a player for a scene snapshot. Empty data plays
// the built-in demo scene.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := player.NewEmulator(rom, region)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DetectRegion reports the region of a scene.
// The bool return is always false: scenes carry no region.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return player.DetectRegion(rom)
}
