//go:build !libretro && !ios

// Package cli provides a command-line runner for the scene player.
// It handles input polling and draws the player in a window without the
// full UI, either through the Kage backend or the software renderer.
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	emucore "github.com/user-none/eblitui/api"

	vdpebiten "github.com/user-none/emvdp/bridge/ebiten"
	"github.com/user-none/emvdp/player"
	"github.com/user-none/emvdp/sceneloader"
	"github.com/user-none/emvdp/vdp"
)

// Runner wraps a player for command-line mode.
// It handles input polling (the player doesn't poll input itself).
// With the Kage backend the player only steps its tables and the runner
// mirrors the changed ranges onto the GPU context before drawing.
type Runner struct {
	emulator *player.Emulator
	gpu      *vdpebiten.Context
	frame    *ebiten.Image
	opts     ebiten.DrawImageOptions
	filter   vdp.Filter
	synced   bool

	loader  *sceneloader.Loader
	dumpDir string
}

// NewRunner creates a runner for e. A nil gpu selects the software
// renderer. Snapshots taken with F5 are written to dumpDir.
func NewRunner(e *player.Emulator, gpu *vdpebiten.Context, filter vdp.Filter, dumpDir string) *Runner {
	r := &Runner{
		emulator: e,
		gpu:      gpu,
		filter:   filter,
		loader:   sceneloader.New(nil),
		dumpDir:  dumpDir,
	}
	if gpu == nil {
		r.frame = ebiten.NewImage(vdp.ScreenWidth, vdp.ScreenHeight)
	}
	return r
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	if r.gpu != nil {
		r.gpu.Destroy()
		r.gpu = nil
	}
	if r.frame != nil {
		r.frame.Deallocate()
		r.frame = nil
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	// Poll input (runner responsibility, not player)
	r.pollInput()

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if path, err := r.Dump(); err != nil {
			vdp.Logger().Error("snapshot failed", "error", err)
		} else {
			vdp.Logger().Info("snapshot written", "path", path)
		}
	}

	if r.gpu == nil {
		r.emulator.RunFrame()
		return nil
	}

	r.emulator.Step()
	r.sync()
	return nil
}

// sync mirrors the player's tables onto the GPU context. The first call
// copies everything.
func (r *Runner) sync() {
	t := r.emulator.Tables()
	if !r.synced {
		t.MarkAllDirty()
		r.synced = true
	}
	t.ApplyDirty(r.gpu, t.TakeDirty())
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	if r.gpu != nil {
		if err := r.gpu.Render(); err != nil {
			vdp.Logger().Error("render failed", "error", err)
			return
		}
		r.gpu.DrawToScreen(screen, r.filter)
		return
	}

	r.frame.WritePixels(r.emulator.GetFramebuffer())
	b := screen.Bounds()
	x, y, w, h := vdp.Fit(b.Dx(), b.Dy())
	r.opts = ebiten.DrawImageOptions{}
	r.opts.GeoM.Scale(float64(w)/vdp.ScreenWidth, float64(h)/vdp.ScreenHeight)
	r.opts.GeoM.Translate(float64(b.Min.X+x), float64(b.Min.Y+y))
	r.opts.Filter = ebiten.FilterNearest
	if r.filter == vdp.FilterBilinear {
		r.opts.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(r.frame, &r.opts)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Dump writes the current render tables to a timestamped snapshot.
func (r *Runner) Dump() (string, error) {
	name := fmt.Sprintf("scene-%s%s", time.Now().Format("20060102-150405"), sceneloader.SceneExt)
	path := filepath.Join(r.dumpDir, name)
	if err := r.loader.Save(path, r.emulator.Tables()); err != nil {
		return "", err
	}
	return path, nil
}

// pad is the button state gathered for one player.
type pad struct {
	up, down, left, right bool
	a, b, c, start        bool
}

func (p pad) bits() uint32 {
	var buttons uint32
	set := func(on bool, bit int) {
		if on {
			buttons |= 1 << bit
		}
	}
	set(p.up, int(emucore.ButtonUp))
	set(p.down, int(emucore.ButtonDown))
	set(p.left, int(emucore.ButtonLeft))
	set(p.right, int(emucore.ButtonRight))
	set(p.a, player.ButtonA)
	set(p.b, player.ButtonB)
	set(p.c, player.ButtonC)
	set(p.start, player.ButtonStart)
	return buttons
}

// pollInput reads keyboard and gamepad input and passes it to the player.
// The keyboard drives player 1 (WASD/arrows) and player 2 (numpad); gamepads
// are assigned to players in connection order.
func (r *Runner) pollInput() {
	var pads [2]pad

	// Keyboard: J/Z = A (mode), K/X = B (wave), L/C = C (steer plane B),
	// Enter = Start (window)
	p := &pads[0]
	p.up = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	p.down = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	p.left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	p.right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	p.a = ebiten.IsKeyPressed(ebiten.KeyJ) || ebiten.IsKeyPressed(ebiten.KeyZ)
	p.b = ebiten.IsKeyPressed(ebiten.KeyK) || ebiten.IsKeyPressed(ebiten.KeyX)
	p.c = ebiten.IsKeyPressed(ebiten.KeyL) || ebiten.IsKeyPressed(ebiten.KeyC)
	p.start = ebiten.IsKeyPressed(ebiten.KeyEnter)

	p = &pads[1]
	p.up = ebiten.IsKeyPressed(ebiten.KeyNumpad8)
	p.down = ebiten.IsKeyPressed(ebiten.KeyNumpad2)
	p.left = ebiten.IsKeyPressed(ebiten.KeyNumpad4)
	p.right = ebiten.IsKeyPressed(ebiten.KeyNumpad6)

	// Gamepad support
	for i, id := range ebiten.AppendGamepadIDs(nil) {
		if i >= len(pads) {
			break
		}
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		p := &pads[i]

		// D-pad
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop) {
			p.up = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
			p.down = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			p.left = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			p.right = true
		}

		// Face buttons: Cross = A, Circle = B, Square = C, Start = Start
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			p.a = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight) {
			p.b = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft) {
			p.c = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			p.start = true
		}

		// Left analog stick (with deadzone)
		const deadzone = 0.5
		axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if axisX < -deadzone {
			p.left = true
		}
		if axisX > deadzone {
			p.right = true
		}
		if axisY < -deadzone {
			p.up = true
		}
		if axisY > deadzone {
			p.down = true
		}
	}

	for i, p := range pads {
		r.emulator.SetInput(i, p.bits())
	}
}
