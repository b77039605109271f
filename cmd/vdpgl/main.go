//go:build !libretro && !ios

// Command vdpgl plays a scene through the OpenGL 4.5 backend in an SDL2
// window.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/user-none/emvdp/bridge/opengl"
	"github.com/user-none/emvdp/player"
	"github.com/user-none/emvdp/sceneloader"
	"github.com/user-none/emvdp/statsview"
	"github.com/user-none/emvdp/vdp"
)

// maxCatchUp bounds the frames stepped after a stall.
const maxCatchUp = 4

func main() {
	scenePath := flag.String("scene", "", "path to scene snapshot (default: built-in demo)")
	regionFlag := flag.String("region", "ntsc", "region: ntsc or pal")
	filter := flag.String("filter", "nearest", "scaling filter: nearest or bilinear")
	zoom := flag.Int("zoom", 3, "initial window zoom")
	wave := flag.Bool("wave", false, "start with the plane B line wave enabled")
	stats := flag.Bool("stats", false, "serve runtime stats (statsview builds only)")
	verbose := flag.Bool("v", false, "log renderer activity to stderr")
	flag.Parse()

	if *verbose {
		vdp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	region := player.RegionNTSC
	switch *regionFlag {
	case "ntsc":
	case "pal":
		region = player.RegionPAL
	default:
		log.Fatalf("Invalid region: %s (use ntsc or pal)", *regionFlag)
	}

	var scene []byte
	if *scenePath != "" {
		data, _, err := sceneloader.Load(*scenePath)
		if err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
		scene = data
	}

	if *stats && statsview.Available() {
		statsview.Launch(os.Stdout, "")
	}

	if err := run(scene, region, vdp.ParseFilter(*filter), max(*zoom, 1), *wave); err != nil {
		log.Fatal(err)
	}
}

func run(scene []byte, region player.Region, filter vdp.Filter, zoom int, wave bool) error {
	e, err := player.NewEmulator(scene, region)
	if err != nil {
		return err
	}
	defer e.Close()
	if wave {
		e.SetOption(player.OptionWave, "true")
	}

	plt, err := newPlatform(player.Name, int32(vdp.ScreenWidth*zoom), int32(vdp.ScreenHeight*zoom))
	if err != nil {
		return err
	}
	defer plt.destroy()

	ctx, err := opengl.NewContext()
	if err != nil {
		return fmt.Errorf("failed to create GL context: %w", err)
	}
	defer ctx.Destroy()

	t := e.Tables()
	t.MarkAllDirty()

	loader := sceneloader.New(nil)
	frame := time.Second / time.Duration(player.GetTimingForRegion(region).FPS)
	last := time.Now()
	var pending time.Duration

	for !plt.shouldStop {
		plt.processEvents()

		keys := sdlKeyboardState()
		for i := 0; i < 2; i++ {
			e.SetInput(i, buttons(keys, i))
		}

		now := time.Now()
		pending += now.Sub(last)
		last = now
		for n := 0; pending >= frame; n++ {
			if n < maxCatchUp {
				e.Step()
			}
			pending -= frame
		}
		t.ApplyDirty(ctx, t.TakeDirty())

		if plt.takeDump() {
			name := fmt.Sprintf("scene-%s%s", now.Format("20060102-150405"), sceneloader.SceneExt)
			if err := loader.Save(filepath.Join(".", name), t); err != nil {
				vdp.Logger().Error("snapshot failed", "error", err)
			} else {
				vdp.Logger().Info("snapshot written", "path", name)
			}
		}

		if err := ctx.Render(); err != nil {
			return err
		}

		width, height := plt.drawableSize()
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		x, y, w, h := vdp.Fit(width, height)
		ctx.Present(x, height-y-h, w, h, filter)
		plt.postRender()
	}
	return nil
}
