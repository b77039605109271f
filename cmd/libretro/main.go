package main

import (
	libretro "github.com/user-none/eblitui/libretro"

	"github.com/user-none/emvdp/adapter"
	"github.com/user-none/emvdp/player"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadA, BitID: player.ButtonA},         // Intensity mode
		{RetroID: libretro.JoypadB, BitID: player.ButtonB},         // Line wave
		{RetroID: libretro.JoypadStart, BitID: player.ButtonStart}, // Window
	})
}

func main() {}
