// Package player runs a scene on the software renderer behind the eblitui
// emulator interface, so the standard front ends can display and control
// it.
package player

import (
	"hash/crc32"
	"strconv"

	emucore "github.com/user-none/eblitui/api"

	"github.com/user-none/emvdp/demo"
	"github.com/user-none/emvdp/vdp"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)

// Name identifies the core to front ends.
const Name = "emVDP"

// Version is the core version. Release builds override it with -ldflags.
var Version = "0.1.0"

const (
	ScreenWidth     = vdp.ScreenWidth
	MaxScreenHeight = vdp.ScreenHeight
	sampleRate      = 48000
)

// Button bits beyond the d-pad.
const (
	ButtonA     = 4
	ButtonB     = 5
	ButtonC     = 6
	ButtonStart = 7
)

// Option keys accepted by SetOption.
const (
	OptionWave  = "wave"
	OptionBands = "render_bands"
)

// Emulator plays a scene. Interactive changes are applied by an Overlay
// onto the render context each frame, so the scene's own scroll, mode and
// window values are kept intact.
type Emulator struct {
	ctx     *vdp.Context
	base    *vdp.Tables
	anim    *demo.Animator
	overlay *Overlay

	sceneCRC uint32

	region Region
	timing RegionTiming

	buttons     [2]uint32
	prevButtons [2]uint32

	audioBuffer []int16
}

// NewEmulator creates a player for a scene snapshot. An empty scene selects
// the built-in demo.
func NewEmulator(scene []byte, region Region) (*Emulator, error) {
	base := vdp.NewTables()
	var anim *demo.Animator
	if len(scene) == 0 {
		demo.Build(base)
		anim = demo.NewAnimator()
		anim.Apply(base)
	} else if err := vdp.Deserialize(base, scene); err != nil {
		return nil, err
	}

	ctx, err := vdp.NewContext()
	if err != nil {
		return nil, err
	}
	base.Apply(ctx)
	base.TakeDirty()

	e := &Emulator{
		ctx:      ctx,
		base:     base,
		anim:     anim,
		overlay:  NewOverlay(base),
		sceneCRC: crc32.ChecksumIEEE(vdp.Serialize(base)),
	}
	e.SetRegion(region)
	return e, nil
}

// SetInput records the button state for a player. Player 0 steers plane A
// (plane B while C is held) and owns the toggles; player 1 steers plane B.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player < 0 || player > 1 {
		return
	}
	e.buttons[player] = buttons

	if player == 0 {
		pressed := buttons &^ e.prevButtons[0]
		if pressed&(1<<ButtonA) != 0 {
			e.overlay.ToggleMode()
		}
		if pressed&(1<<ButtonB) != 0 {
			e.overlay.ToggleWave()
		}
		if pressed&(1<<ButtonStart) != 0 {
			e.overlay.ToggleWindow()
		}
	}
	e.prevButtons[player] = buttons
}

// steer converts held d-pad buttons into a one pixel scroll step.
func steer(buttons uint32) (dx, dy int) {
	if buttons&(1<<emucore.ButtonLeft) != 0 {
		dx--
	}
	if buttons&(1<<emucore.ButtonRight) != 0 {
		dx++
	}
	if buttons&(1<<emucore.ButtonDown) != 0 {
		dy--
	}
	if buttons&(1<<emucore.ButtonUp) != 0 {
		dy++
	}
	return dx, dy
}

// GetFramebuffer returns raw RGBA pixel data for current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.ctx.Framebuffer().Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.ctx.Framebuffer().Stride
}

// GetActiveHeight returns the display height, always 224.
func (e *Emulator) GetActiveHeight() int {
	return MaxScreenHeight
}

// GetRegion returns the emulator's region setting
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count for the current region.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the frame rate and the silent audio buffer size.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
	e.audioBuffer = make([]int16, sampleRate/e.timing.FPS*2)
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case OptionWave:
		e.overlay.SetWave(value == "true")
	case OptionBands:
		if n, err := strconv.Atoi(value); err == nil {
			e.ctx.SetBands(n)
		}
	}
}

// Close releases the render context.
func (e *Emulator) Close() {
	e.ctx.Destroy()
	e.ctx = nil
}

// Tables returns the render tables. Callers driving another backend read
// them after Step.
func (e *Emulator) Tables() *vdp.Tables {
	return e.ctx.Tables
}

// Overlay returns the interactive overlay.
func (e *Emulator) Overlay() *Overlay {
	return e.overlay
}

// Step advances the scene by one frame and updates the render tables
// without rendering.
func (e *Emulator) Step() {
	dt := 1 / float32(e.timing.FPS)

	dx, dy := steer(e.buttons[0])
	if e.buttons[0]&(1<<ButtonC) != 0 {
		e.overlay.Scroll(vdp.PlaneB, dx, dy)
	} else {
		e.overlay.Scroll(vdp.PlaneA, dx, dy)
	}
	dx, dy = steer(e.buttons[1])
	e.overlay.Scroll(vdp.PlaneB, dx, dy)

	if e.anim != nil {
		e.anim.Update(dt)
		e.anim.Apply(e.base)
	}
	e.base.ApplyDirty(e.ctx, e.base.TakeDirty())

	e.overlay.Update(dt)
	e.overlay.Apply(e.ctx)
}

// RunFrame advances one frame and renders it.
func (e *Emulator) RunFrame() {
	e.Step()
	if err := e.ctx.Render(); err != nil {
		vdp.Logger().Error("player: render failed", "error", err)
	}
}

// GetAudioSamples returns one frame of silence as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}
