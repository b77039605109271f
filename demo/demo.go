// Package demo builds a procedural shadow/highlight scene on any vdp.Device
// and animates it.
package demo

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/user-none/emvdp/vdp"
)

// Plane dimensions of the scene in cells.
const (
	PlaneWidth  = 64
	PlaneHeight = 32
)

// Scene layout.
const (
	// DiscSprites is the number of operator discs on the sprite chain.
	DiscSprites = 8
	// CenterSprite is the index of the last, opaque disc.
	CenterSprite = DiscSprites
	// BarRows is the number of status bar cell rows on the window plane.
	BarRows = 2

	discSize   = 32
	bobTravel  = 24
	bobSeconds = 1.5
)

// Initial scroll positions.
const (
	StartXA = -88
	StartYA = 24
	StartXB = -96
	StartYB = 16
)

// Build writes the complete demo scene to d: intensity mode, 64x32 planes,
// palette, tiles, plane cells, the sprite chain and the initial scroll
// tables. The window plane holds a status bar but the window is off.
func Build(d vdp.Device) {
	d.SetMode(vdp.ModeIntensity)
	d.SetPlaneSize(PlaneWidth, PlaneHeight)
	d.SetBackgroundColor(0)
	d.SetWindowCoord(0, 0)
	d.SetColorsSH(0, Palette())
	d.SetPatterns(0, Patterns())
	for p := vdp.PlaneA; p <= vdp.PlaneW; p++ {
		d.SetCells(p, 0, 0, PlaneWidth, PlaneHeight, planeCells(p))
	}
	d.SetSprites(0, Sprites(0))

	fill := func(v int, n int) []int16 {
		s := make([]int16, n)
		for i := range s {
			s[i] = int16(v)
		}
		return s
	}
	d.SetHScroll(vdp.PlaneA, 0, fill(StartXA, vdp.HScrollCount))
	d.SetHScroll(vdp.PlaneB, 0, fill(StartXB, vdp.HScrollCount))
	d.SetVScroll(vdp.PlaneA, 0, fill(StartYA, vdp.VScrollCount))
	d.SetVScroll(vdp.PlaneB, 0, fill(StartYB, vdp.VScrollCount))
}

func planeCells(p vdp.Plane) []vdp.Cell {
	cells := make([]vdp.Cell, 0, PlaneWidth*PlaneHeight)
	for j := 0; j < PlaneHeight; j++ {
		for i := 0; i < PlaneWidth; i++ {
			var c vdp.Cell
			switch p {
			case vdp.PlaneA:
				c = vdp.NewCell(PatternBevel, 0, i&1 != 0, j&1 != 0, i&32 != 0)
			case vdp.PlaneB:
				c = vdp.NewCell(PatternBevel, 1, i&1 != 0, j&1 != 0, j&16 != 0)
			case vdp.PlaneW:
				if j < BarRows {
					c = vdp.NewCell(PatternBar, 0, false, false, true)
				}
			}
			cells = append(cells, c)
		}
	}
	return cells
}

// Sprites returns the sprite chain: eight palette-3 discs on a grid, odd
// ones high priority, followed by an opaque palette-2 disc at the center
// shifted vertically by bob pixels.
func Sprites(bob int) []vdp.Sprite {
	sprites := make([]vdp.Sprite, 0, DiscSprites+1)
	for i := 0; i < DiscSprites; i++ {
		x := (i&3)*vdp.ScreenWidth/4 + vdp.ScreenWidth/8 - discSize/2
		y := (i>>2)*vdp.ScreenHeight/2 + vdp.ScreenHeight/4 - discSize/2
		attr := vdp.NewCell(PatternDisc, 3, false, false, i&1 != 0)
		sprites = append(sprites, vdp.NewSprite(x, y, 4, 4, uint8(i+1), attr))
	}
	sprites = append(sprites, centerSprite(bob))
	return sprites
}

func centerSprite(bob int) vdp.Sprite {
	attr := vdp.NewCell(PatternDisc, 2, false, false, false)
	return vdp.NewSprite(vdp.ScreenWidth/2-discSize/2, vdp.ScreenHeight/2-discSize/2+bob, 4, 4, 0, attr)
}

// Animator bobs the center disc up and down.
type Animator struct {
	tween *gween.Tween
	down  bool
	bob   float32
}

// NewAnimator returns an animator with the disc at the top of its travel.
func NewAnimator() *Animator {
	a := &Animator{bob: -bobTravel / 2}
	a.tween = gween.New(-bobTravel/2, bobTravel/2, bobSeconds, ease.InOutSine)
	return a
}

// Offset returns the current vertical offset of the center disc.
func (a *Animator) Offset() int {
	return int(math.Round(float64(a.bob)))
}

// Update advances the animation by dt seconds.
func (a *Animator) Update(dt float32) {
	v, done := a.tween.Update(dt)
	a.bob = v
	if done {
		a.down = !a.down
		from, to := float32(-bobTravel/2), float32(bobTravel/2)
		if a.down {
			from, to = to, from
		}
		a.tween = gween.New(from, to, bobSeconds, ease.InOutSine)
	}
}

// Apply writes the center disc to d.
func (a *Animator) Apply(d vdp.Device) {
	d.SetSprites(CenterSprite, []vdp.Sprite{centerSprite(a.Offset())})
}
