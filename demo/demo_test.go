package demo

import (
	"testing"

	"github.com/user-none/emvdp/vdp"
)

func TestBuild_Tables(t *testing.T) {
	tb := vdp.NewTables()
	Build(tb)

	if tb.Mode() != vdp.ModeIntensity {
		t.Errorf("mode: expected intensity, got %v", tb.Mode())
	}
	if w, h := tb.PlaneSize(); w != PlaneWidth || h != PlaneHeight {
		t.Errorf("plane size: got %dx%d", w, h)
	}
	if got := tb.HScroll(vdp.PlaneA, 100); got != StartXA {
		t.Errorf("hscroll A: expected %d, got %d", StartXA, got)
	}
	if got := tb.VScroll(vdp.PlaneB, 19); got != StartYB {
		t.Errorf("vscroll B: expected %d, got %d", StartYB, got)
	}
	if x, y := tb.WindowCoord(); x != 0 || y != 0 {
		t.Errorf("window should start off, got (%d,%d)", x, y)
	}

	hops := 0
	for i := 0; ; i = int(tb.Sprite(i).Link()) {
		hops++
		if tb.Sprite(i).Link() == 0 {
			break
		}
	}
	if hops != DiscSprites+1 {
		t.Errorf("sprite chain: expected %d sprites, got %d", DiscSprites+1, hops)
	}
}

func TestPatterns(t *testing.T) {
	p := Patterns()
	if len(p) != PatternCount {
		t.Fatalf("expected %d patterns, got %d", PatternCount, len(p))
	}
	if p[PatternBlank] != (vdp.Pattern{}) {
		t.Error("pattern 0 must be blank")
	}
	if p[PatternBevel].Pixel(3, 3) != 0 || p[PatternBevel].Pixel(0, 5) != 2 || p[PatternBevel].Pixel(5, 7) != 3 {
		t.Error("bevel tile layout")
	}
	if p[PatternBar].Pixel(6, 1) != 4 {
		t.Error("bar tile should be solid color 4")
	}

	if p[PatternDisc].Pixel(0, 0) != 0 {
		t.Error("disc corner should be transparent")
	}
	// Column-major: tile 1 is below tile 0, tile 4 is right of tile 0.
	if got := p[PatternDisc+1].Pixel(7, 7); got != 14 {
		t.Errorf("disc left half: expected 14, got %d", got)
	}
	if got := p[PatternDisc+3*4+1].Pixel(0, 7); got != 15 {
		t.Errorf("disc right half: expected 15, got %d", got)
	}
}

func TestScene_CenterDisc(t *testing.T) {
	tb := vdp.NewTables()
	Build(tb)

	// Low priority, palette 2: drawn shadowed in intensity mode.
	want := vdp.Color{G: 0x40}
	if got := tb.Pixel(160, 104); got != want {
		t.Errorf("center disc: expected %+v, got %+v", want, got)
	}
}

func TestScene_OperatorDisc(t *testing.T) {
	tb := vdp.NewTables()
	Build(tb)

	// Sprite 0 is low priority, palette 3, color 14 on its left half: it
	// highlights the face of the plane A tile underneath.
	want := vdp.Color{B: 0x80}.Highlight()
	if got := tb.Pixel(34, 58); got != want {
		t.Errorf("operator: expected %+v, got %+v", want, got)
	}

	// In normal mode the disc is an ordinary sprite; palette 3 color 14 is
	// unset, so it draws black.
	tb.SetMode(vdp.ModeNormal)
	if got := tb.Pixel(34, 58); got != (vdp.Color{}) {
		t.Errorf("normal mode: expected black disc, got %+v", got)
	}
}

func TestScene_StatusBar(t *testing.T) {
	tb := vdp.NewTables()
	Build(tb)

	tb.SetWindowCoord(0, BarRows*vdp.PatternHeight)
	if got := tb.Pixel(5, 5); got != (vdp.Color{R: 0x20, G: 0x20, B: 0x20}) {
		t.Errorf("status bar: got %+v", got)
	}
}

func TestAnimator_Bob(t *testing.T) {
	a := NewAnimator()
	if a.Offset() != -bobTravel/2 {
		t.Fatalf("expected start offset %d, got %d", -bobTravel/2, a.Offset())
	}
	a.Update(bobSeconds / 2)
	if off := a.Offset(); off <= -bobTravel/2 || off >= bobTravel/2 {
		t.Errorf("mid travel offset out of range: %d", off)
	}
	a.Update(bobSeconds / 2)
	if a.Offset() != bobTravel/2 {
		t.Errorf("expected bottom offset, got %d", a.Offset())
	}
	a.Update(bobSeconds)
	if a.Offset() != -bobTravel/2 {
		t.Errorf("expected back at top, got %d", a.Offset())
	}
}

func TestAnimator_Apply(t *testing.T) {
	tb := vdp.NewTables()
	Build(tb)
	a := NewAnimator()
	a.Apply(tb)

	if got := tb.Sprite(CenterSprite).ScreenY(); got != vdp.ScreenHeight/2-discSize/2-bobTravel/2 {
		t.Errorf("center sprite y: got %d", got)
	}
	if tb.Sprite(CenterSprite).Link() != 0 {
		t.Error("center sprite must end the chain")
	}
	if got := tb.Pixel(160, 92); got != (vdp.Color{G: 0x40}) {
		t.Errorf("moved disc: got %+v", got)
	}
}
