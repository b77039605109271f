package player

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/user-none/emvdp/vdp"
)

// Overlay constants.
const (
	// WaveAmplitude is the peak per-line offset of plane B, in pixels.
	WaveAmplitude = 12
	// WaveSpeed is the phase advance of the wave in radians per second.
	WaveSpeed = 3.0
	// WaveFade is how long the wave takes to fade in or out, in seconds.
	WaveFade = 0.75
	// DefaultWindowHeight is the window shown by ToggleWindow on scenes
	// that do not define one.
	DefaultWindowHeight = 16
)

// Overlay applies interactive changes on top of a scene without touching
// the scene itself: scroll offsets, a mode toggle, a window toggle and a
// per-line wave on plane B.
type Overlay struct {
	base *vdp.Tables

	dx, dy [2]int

	modeToggled   bool
	windowToggled bool

	wave  bool
	amp   float32
	tween *gween.Tween
	phase float64

	h [2][vdp.HScrollCount]int16
	v [2][vdp.VScrollCount]int16
}

// NewOverlay returns an overlay reading its base values from base.
func NewOverlay(base *vdp.Tables) *Overlay {
	return &Overlay{base: base}
}

// Scroll moves plane p by (dx, dy) pixels relative to the scene.
func (o *Overlay) Scroll(p vdp.Plane, dx, dy int) {
	if p != vdp.PlaneA && p != vdp.PlaneB {
		return
	}
	o.dx[p] += dx
	o.dy[p] += dy
}

// Offset returns the scroll offset of plane p.
func (o *Overlay) Offset(p vdp.Plane) (dx, dy int) {
	if p != vdp.PlaneA && p != vdp.PlaneB {
		return 0, 0
	}
	return o.dx[p], o.dy[p]
}

// ToggleMode flips between normal and intensity rendering.
func (o *Overlay) ToggleMode() { o.modeToggled = !o.modeToggled }

// ToggleWindow shows or hides the window.
func (o *Overlay) ToggleWindow() { o.windowToggled = !o.windowToggled }

// Mode returns the effective render mode.
func (o *Overlay) Mode() vdp.Mode {
	m := o.base.Mode()
	if !o.modeToggled {
		return m
	}
	if m == vdp.ModeIntensity {
		return vdp.ModeNormal
	}
	return vdp.ModeIntensity
}

// WindowCoord returns the effective window offsets. Toggling hides the
// scene's window, or shows a top bar if the scene has none.
func (o *Overlay) WindowCoord() (x, y int) {
	x, y = o.base.WindowCoord()
	if !o.windowToggled {
		return x, y
	}
	if x == 0 && y == 0 {
		return 0, DefaultWindowHeight
	}
	return 0, 0
}

// Wave reports whether the plane B wave is enabled.
func (o *Overlay) Wave() bool { return o.wave }

// SetWave starts fading the plane B wave in or out.
func (o *Overlay) SetWave(on bool) {
	if on == o.wave {
		return
	}
	o.wave = on
	o.tween = gween.New(o.amp, o.target(), WaveFade, ease.InOutQuad)
}

// ToggleWave flips the wave.
func (o *Overlay) ToggleWave() { o.SetWave(!o.wave) }

// Amplitude returns the current wave amplitude in pixels.
func (o *Overlay) Amplitude() float32 { return o.amp }

func (o *Overlay) target() float32 {
	if o.wave {
		return WaveAmplitude
	}
	return 0
}

// Update advances the wave by dt seconds.
func (o *Overlay) Update(dt float32) {
	if o.tween != nil {
		v, done := o.tween.Update(dt)
		o.amp = v
		if done {
			o.tween = nil
		}
	}
	if o.amp != 0 {
		o.phase = math.Mod(o.phase+float64(dt)*WaveSpeed, 2*math.Pi)
	}
}

// Apply writes the mode, window and scroll tables to d.
func (o *Overlay) Apply(d vdp.Device) {
	d.SetMode(o.Mode())
	d.SetWindowCoord(o.WindowCoord())

	for p := vdp.PlaneA; p <= vdp.PlaneB; p++ {
		for i := range o.h[p] {
			hs := int(o.base.HScroll(p, i)) + o.dx[p]
			if p == vdp.PlaneB && o.amp != 0 {
				hs += int(math.Round(float64(o.amp) * math.Sin(o.phase+float64(i)/8)))
			}
			o.h[p][i] = int16(hs)
		}
		for i := range o.v[p] {
			o.v[p][i] = int16(int(o.base.VScroll(p, i)) + o.dy[p])
		}
		d.SetHScroll(p, 0, o.h[p][:])
		d.SetVScroll(p, 0, o.v[p][:])
	}
}

// restore sets the overlay state without animating.
func (o *Overlay) restore(dx, dy [2]int, mode, window, wave bool) {
	o.dx, o.dy = dx, dy
	o.modeToggled = mode
	o.windowToggled = window
	o.wave = wave
	o.amp = o.target()
	o.tween = nil
}
