//go:build !libretro && !ios

package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	vdpebiten "github.com/user-none/emvdp/bridge/ebiten"
	"github.com/user-none/emvdp/cli"
	"github.com/user-none/emvdp/config"
	"github.com/user-none/emvdp/player"
	"github.com/user-none/emvdp/sceneloader"
	"github.com/user-none/emvdp/statsview"
	"github.com/user-none/emvdp/vdp"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: user config dir)")
	scenePath := flag.String("scene", "", "path to scene snapshot (default: built-in demo)")
	backend := flag.String("backend", "", "renderer: kage or software")
	filter := flag.String("filter", "", "scaling filter: nearest or bilinear")
	shaders := flag.String("shaders", "", "comma separated post-process shaders (kage only): "+strings.Join(vdpebiten.ShaderIDs(), ", "))
	regionFlag := flag.String("region", "", "region: ntsc or pal")
	wave := flag.Bool("wave", false, "start with the plane B line wave enabled")
	dump := flag.String("dump", "", "write the first frame's tables to this path and exit")
	stats := flag.Bool("stats", false, "serve runtime stats (statsview builds only)")
	verbose := flag.Bool("v", false, "log renderer activity to stderr")
	flag.Parse()

	if *verbose {
		vdp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Fatal(err)
		}
		path = p
	}
	store := config.NewStore(nil, path)
	cfg, err := store.Load()
	if err != nil {
		log.Printf("Using default config: %v", err)
		cfg = config.DefaultConfig()
	}

	// Flags given on the command line override and update the config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene.LastPath = *scenePath
		case "backend":
			cfg.Backend = *backend
		case "filter":
			cfg.Video.Filter = *filter
		case "shaders":
			cfg.Video.Shaders = splitList(*shaders)
		case "region":
			cfg.Scene.Region = *regionFlag
		case "wave":
			cfg.Scene.Wave = *wave
		}
	})

	var region player.Region
	switch strings.ToLower(cfg.Scene.Region) {
	case "ntsc":
		region = player.RegionNTSC
	case "pal":
		region = player.RegionPAL
	default:
		log.Fatalf("Invalid region: %s (use ntsc or pal)", cfg.Scene.Region)
	}

	var scene []byte
	if cfg.Scene.LastPath != "" {
		data, name, err := sceneloader.Load(cfg.Scene.LastPath)
		if err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
		vdp.Logger().Info("scene loaded", "name", name, "bytes", len(data))
		scene = data
	}

	e, err := player.NewEmulator(scene, region)
	if err != nil {
		log.Fatalf("Failed to create player: %v", err)
	}
	defer e.Close()
	if cfg.Scene.Wave {
		e.SetOption(player.OptionWave, "true")
	}
	if cfg.Video.Bands > 0 {
		e.SetOption(player.OptionBands, fmt.Sprint(cfg.Video.Bands))
	}

	if *dump != "" {
		e.Step()
		if err := sceneloader.New(nil).Save(*dump, e.Tables()); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		return
	}

	if *stats && statsview.Available() {
		statsview.Launch(os.Stdout, "")
	}

	var gpu *vdpebiten.Context
	if cfg.Backend == config.BackendKage {
		gpu, err = vdpebiten.NewContext()
		if err != nil {
			log.Fatalf("Failed to create Kage context: %v", err)
		}
		if err := gpu.SetPostShaders(cfg.Video.Shaders); err != nil {
			log.Fatal(err)
		}
	} else if len(cfg.Video.Shaders) > 0 {
		log.Printf("Post-process shaders need the kage backend, ignoring %v", cfg.Video.Shaders)
	}

	dumpDir, err := os.Getwd()
	if err != nil {
		dumpDir = "."
	}
	r := cli.NewRunner(e, gpu, vdp.ParseFilter(cfg.Video.Filter), dumpDir)
	defer r.Close()

	timing := player.GetTimingForRegion(region)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if cfg.Window.X != nil && cfg.Window.Y != nil {
		ebiten.SetWindowPosition(*cfg.Window.X, *cfg.Window.Y)
	}
	ebiten.SetWindowTitle(player.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(vdp.ScreenWidth, vdp.ScreenHeight, -1, -1)
	ebiten.SetTPS(timing.FPS)

	if err := ebiten.RunGame(r); err != nil {
		log.Fatal(err)
	}

	cfg.Window.Width, cfg.Window.Height = ebiten.WindowSize()
	x, y := ebiten.WindowPosition()
	cfg.Window.X, cfg.Window.Y = &x, &y
	if err := store.Save(cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
