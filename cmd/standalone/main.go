//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"

	"github.com/user-none/emvdp/adapter"
	"github.com/user-none/emvdp/player"
)

func main() {
	scenePath := flag.String("scene", "", "path to scene snapshot (opens UI if not provided)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	wave := flag.Bool("wave", false, "start with the plane B line wave enabled")
	flag.Parse()

	factory := &adapter.Factory{}

	if *scenePath != "" {
		options := map[string]string{}
		if *wave {
			options[player.OptionWave] = "true"
		}
		if err := standalone.RunDirect(factory, *scenePath, *regionFlag, options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
