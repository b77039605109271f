package vdp

import "testing"

// TestPixel_PlaneASolidRegion renders an 8x8 block of pattern 1 (color 5,
// red) on plane A and checks every covered pixel.
func TestPixel_PlaneASolidRegion(t *testing.T) {
	tb := newTestTables()
	tb.SetCells(PlaneA, 0, 0, 8, 8, fillCells(NewCell(1, 0, false, false, false), 8, 8))

	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if got := tb.Pixel(x, y); got != red {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, red, got)
			}
		}
	}
	if got := tb.Pixel(64, 0); got != black {
		t.Errorf("pixel outside region: expected backdrop %v, got %v", black, got)
	}
}

func TestPixel_Backdrop(t *testing.T) {
	tb := newTestTables()
	tb.SetBackgroundColor(6)
	if got := tb.Pixel(100, 100); got != green {
		t.Errorf("expected backdrop %v, got %v", green, got)
	}
}

func TestPixel_HScrollWrapsAtPlaneWidth(t *testing.T) {
	tb := newTestTables()
	tb.SetCells(PlaneA, 1, 0, 1, 1, []Cell{NewCell(1, 0, false, false, false)})

	// Cell column 1 sits at plane x 8..15.
	if got := tb.Pixel(8, 0); got != red {
		t.Fatalf("unscrolled: expected %v, got %v", red, got)
	}

	tb.SetHScroll(PlaneA, 0, []int16{8})
	if got := tb.Pixel(16, 0); got != red {
		t.Errorf("scroll 8: expected pixel 16 %v, got %v", red, got)
	}
	if got := tb.Pixel(8, 0); got != black {
		t.Errorf("scroll 8: expected pixel 8 %v, got %v", black, got)
	}

	// 32 cells wide = 256 pixels; a full plane width is the same as zero.
	tb.SetHScroll(PlaneA, 0, []int16{256})
	if got := tb.Pixel(8, 0); got != red {
		t.Errorf("scroll 256: expected %v, got %v", red, got)
	}
	tb.SetHScroll(PlaneA, 0, []int16{-256})
	if got := tb.Pixel(8, 0); got != red {
		t.Errorf("scroll -256: expected %v, got %v", red, got)
	}

	// Wider plane, same value no longer wraps.
	tb.SetPlaneSize(64, 32)
	if got := tb.Pixel(8, 0); got != black {
		t.Errorf("64-cell plane with scroll -256: expected %v, got %v", black, got)
	}
}

func TestPixel_HScrollPerLine(t *testing.T) {
	tb := newTestTables()
	tb.SetCells(PlaneB, 0, 0, 1, 2, []Cell{NewCell(1, 0, false, false, false), NewCell(1, 0, false, false, false)})
	tb.SetHScroll(PlaneB, 3, []int16{100})

	if got := tb.Pixel(0, 2); got != red {
		t.Errorf("line 2: expected %v, got %v", red, got)
	}
	if got := tb.Pixel(0, 3); got != black {
		t.Errorf("line 3 scrolled: expected %v, got %v", black, got)
	}
	if got := tb.Pixel(100, 3); got != red {
		t.Errorf("line 3 at x=100: expected %v, got %v", red, got)
	}
}

func TestPixel_VScrollPerColumnPair(t *testing.T) {
	tb := newTestTables()
	tb.SetCells(PlaneA, 0, 1, 4, 1, fillCells(NewCell(3, 0, false, false, false), 4, 1))
	tb.SetVScroll(PlaneA, 0, []int16{8})

	// Column group 0 (x 0..15) shows plane row 1 at screen row 0.
	if got := tb.Pixel(0, 0); got != blue {
		t.Errorf("group 0: expected %v, got %v", blue, got)
	}
	if got := tb.Pixel(15, 7); got != blue {
		t.Errorf("group 0 edge: expected %v, got %v", blue, got)
	}
	// Column group 1 is unscrolled.
	if got := tb.Pixel(16, 0); got != black {
		t.Errorf("group 1 row 0: expected %v, got %v", black, got)
	}
	if got := tb.Pixel(16, 8); got != blue {
		t.Errorf("group 1 row 8: expected %v, got %v", blue, got)
	}
	// 32 rows = 256 pixels: scrolling up past the top wraps to the bottom.
	tb.SetVScroll(PlaneA, 1, []int16{-248})
	if got := tb.Pixel(16, 0); got != blue {
		t.Errorf("group 1 wrapped: expected %v, got %v", blue, got)
	}
}

func TestPixel_CellFlip(t *testing.T) {
	tb := newTestTables()
	var p Pattern
	p[0] = PackPatternRow([PatternWidth]uint8{5, 0, 0, 0, 0, 0, 0, 0})
	tb.SetPatterns(10, []Pattern{p})

	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(10, 0, false, false, false)})
	if tb.Pixel(0, 0) != red || tb.Pixel(7, 0) != black {
		t.Error("unflipped pixel misplaced")
	}

	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(10, 0, true, false, false)})
	if tb.Pixel(7, 0) != red || tb.Pixel(0, 0) != black {
		t.Error("hflip not applied")
	}

	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(10, 0, true, true, false)})
	if tb.Pixel(7, 7) != red || tb.Pixel(7, 0) != black {
		t.Error("hflip+vflip not applied")
	}
}

func TestPixel_PaletteSelect(t *testing.T) {
	tb := newTestTables()
	tb.SetColorsSH(16, []Color{{}, {}, {}, {}, {}, {1, 2, 3}})
	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(1, 1, false, false, false)})
	if got := tb.Pixel(0, 0); got != (Color{1, 2, 3}) {
		t.Errorf("palette 1 color 5: got %v", got)
	}
}

func TestPixel_Priority(t *testing.T) {
	tests := []struct {
		name      string
		aPriority bool
		bPriority bool
		sPriority bool
		spritePat uint16
		want      Color
	}{
		{"high sprite over low A", false, false, true, 3, blue},
		{"high sprite over high A", true, false, true, 3, blue},
		{"low sprite over low A", false, false, false, 3, blue},
		{"high A over low sprite", true, false, false, 3, red},
		{"transparent sprite does not occlude", false, false, true, 0, red},
		{"high B over low A and low sprite", false, true, false, 3, green},
		{"high A over high B", true, true, false, 3, red},
	}
	for _, tt := range tests {
		tb := newTestTables()
		tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(1, 0, false, false, tt.aPriority)})
		tb.SetCells(PlaneB, 0, 0, 1, 1, []Cell{NewCell(2, 0, false, false, tt.bPriority)})
		tb.SetSprites(0, []Sprite{NewSprite(0, 0, 1, 1, 0, NewCell(tt.spritePat, 0, false, false, tt.sPriority))})
		if got := tb.Pixel(4, 4); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestPixel_TransparentAFallsToB(t *testing.T) {
	tb := newTestTables()
	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(0, 0, false, false, true)})
	tb.SetCells(PlaneB, 0, 0, 1, 1, []Cell{NewCell(2, 0, false, false, false)})
	if got := tb.Pixel(0, 0); got != green {
		t.Errorf("expected plane B %v, got %v", green, got)
	}
}

func TestPixel_SpriteChainOrder(t *testing.T) {
	tb := newTestTables()
	tb.SetSprites(0, []Sprite{
		NewSprite(0, 0, 1, 1, 1, NewCell(2, 0, false, false, false)), // green, first in chain
		NewSprite(4, 0, 1, 1, 0, NewCell(1, 0, false, false, true)),  // red, second
		NewSprite(0, 40, 1, 1, 0, NewCell(3, 0, false, false, true)), // not linked
	})

	if got := tb.Pixel(5, 0); got != green {
		t.Errorf("overlap: earlier sprite should win, got %v", got)
	}
	if got := tb.Pixel(9, 0); got != red {
		t.Errorf("second sprite alone: expected %v, got %v", red, got)
	}
	if got := tb.Pixel(0, 40); got != black {
		t.Errorf("unlinked sprite drawn: got %v", got)
	}
}

func TestPixel_SpriteChainCycleTerminates(t *testing.T) {
	tb := newTestTables()
	sprites := make([]Sprite, SpriteCount)
	for i := range sprites {
		// Every sprite links forward, the last one back to 1: link never hits 0.
		link := uint8(i + 1)
		if i == SpriteCount-1 {
			link = 1
		}
		sprites[i] = NewSprite(300, 200, 1, 1, link, NewCell(1, 0, false, false, false))
	}
	tb.SetSprites(0, sprites)

	if got := tb.Pixel(0, 0); got != black {
		t.Errorf("expected backdrop, got %v", got)
	}
	if got := tb.Pixel(300, 200); got != red {
		t.Errorf("expected sprite, got %v", got)
	}
}

func TestPixel_SpriteColumnMajorTiles(t *testing.T) {
	tb := newTestTables()
	// 2x2 sprite at pattern 20: tiles 20,21 in column 0 and 22,23 in column 1.
	tb.SetPatterns(20, []Pattern{solidPattern(5), solidPattern(6), solidPattern(7), solidPattern(5)})
	tb.SetSprites(0, []Sprite{NewSprite(16, 16, 2, 2, 0, NewCell(20, 0, false, false, false))})

	checks := []struct {
		x, y int
		want Color
	}{
		{16, 16, red},
		{16, 24, green},
		{24, 16, blue},
		{24, 24, red},
		{32, 16, black},
		{15, 16, black},
	}
	for _, c := range checks {
		if got := tb.Pixel(c.x, c.y); got != c.want {
			t.Errorf("pixel (%d,%d): expected %v, got %v", c.x, c.y, c.want, got)
		}
	}

	// Flipping mirrors the whole sprite, not each tile.
	tb.SetSprites(0, []Sprite{NewSprite(16, 16, 2, 2, 0, NewCell(20, 0, true, false, false))})
	if got := tb.Pixel(16, 16); got != blue {
		t.Errorf("hflip: expected %v, got %v", blue, got)
	}
	tb.SetSprites(0, []Sprite{NewSprite(16, 16, 2, 2, 0, NewCell(20, 0, false, true, false))})
	if got := tb.Pixel(16, 16); got != green {
		t.Errorf("vflip: expected %v, got %v", green, got)
	}
}

func TestPixel_SpriteOffscreenLeft(t *testing.T) {
	tb := newTestTables()
	tb.SetSprites(0, []Sprite{NewSprite(-4, 0, 1, 1, 0, NewCell(1, 0, false, false, false))})
	if tb.Pixel(3, 0) != red || tb.Pixel(4, 0) != black {
		t.Error("partially offscreen sprite clipped incorrectly")
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		wx, wy int
		x, y   int
		want   bool
	}{
		{0, 0, 0, 0, false},
		{16, 0, 15, 100, true},
		{16, 0, 16, 100, false},
		{-304, 0, 303, 0, false},
		{-304, 0, 304, 0, true},
		{0, 24, 200, 23, true},
		{0, 24, 200, 24, false},
		{0, -200, 0, 200, true},
		{16, -200, 100, 100, false},
		{16, -200, 100, 210, true},
	}
	for _, tt := range tests {
		tb := NewTables()
		tb.SetWindowCoord(tt.wx, tt.wy)
		if got := tb.InWindow(tt.x, tt.y); got != tt.want {
			t.Errorf("window (%d,%d) pixel (%d,%d): expected %v, got %v", tt.wx, tt.wy, tt.x, tt.y, tt.want, got)
		}
	}
}

func TestPixel_WindowAlwaysWins(t *testing.T) {
	tb := newTestTables()
	tb.SetWindowCoord(16, 0)
	tb.SetCells(PlaneW, 0, 0, 40, 28, fillCells(NewCell(3, 0, false, false, false), 40, 28))
	tb.SetCells(PlaneA, 0, 0, 40, 28, fillCells(NewCell(1, 0, false, false, true), 40, 28))
	tb.SetSprites(0, []Sprite{
		NewSprite(8, 0, 1, 1, 1, NewCell(2, 0, false, false, true)),
		NewSprite(16, 0, 1, 1, 0, NewCell(2, 0, false, false, true)),
	})

	for x := 0; x < 16; x++ {
		if got := tb.Pixel(x, 0); got != blue {
			t.Fatalf("window pixel (%d,0): expected %v, got %v", x, blue, got)
		}
	}
	if got := tb.Pixel(16, 0); got != green {
		t.Errorf("outside window: expected sprite %v, got %v", green, got)
	}
	if got := tb.Pixel(16, 8); got != red {
		t.Errorf("outside window: expected plane A %v, got %v", red, got)
	}
}

func TestPixel_WindowTransparentReplacesPlaneA(t *testing.T) {
	tb := newTestTables()
	tb.SetWindowCoord(0, 8)
	tb.SetCells(PlaneA, 0, 0, 2, 1, fillCells(NewCell(1, 0, false, false, true), 2, 1))
	tb.SetCells(PlaneB, 0, 0, 1, 1, []Cell{NewCell(2, 0, false, false, false)})
	tb.SetSprites(0, []Sprite{NewSprite(8, 0, 1, 1, 0, NewCell(3, 0, false, false, false))})

	// Window cells are all pattern 0: transparent.
	if got := tb.Pixel(0, 0); got != green {
		t.Errorf("expected plane B through transparent window, got %v", got)
	}
	if got := tb.Pixel(8, 0); got != blue {
		t.Errorf("expected sprite through transparent window, got %v", got)
	}
	if got := tb.Pixel(0, 8); got != black {
		t.Errorf("below window: expected backdrop, got %v", got)
	}
}

func TestPixel_WindowNotScrolled(t *testing.T) {
	tb := newTestTables()
	tb.SetWindowCoord(0, 8)
	tb.SetCells(PlaneW, 2, 0, 1, 1, []Cell{NewCell(1, 0, false, false, false)})
	tb.SetHScroll(PlaneA, 0, []int16{5})
	tb.SetVScroll(PlaneA, 0, make([]int16, VScrollCount))
	if tb.Pixel(16, 0) != red || tb.Pixel(15, 0) != black {
		t.Error("window plane moved with plane A scroll")
	}
}

func TestPixel_IntensityMode(t *testing.T) {
	tb := newTestTables()
	tb.SetMode(ModeIntensity)

	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(1, 0, false, false, false)})
	if got := tb.Pixel(0, 0); got != red.Shadow() {
		t.Errorf("low priority: expected shadow %v, got %v", red.Shadow(), got)
	}

	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(1, 0, false, false, true)})
	if got := tb.Pixel(0, 0); got != red {
		t.Errorf("high priority: expected normal %v, got %v", red, got)
	}

	if got := tb.Pixel(100, 100); got != black.Shadow() {
		t.Errorf("backdrop: expected shadow, got %v", got)
	}
}

// A high-priority cell only lifts the backdrop when its pixel is opaque.
func TestPixel_IntensityTransparentPriorityCell(t *testing.T) {
	tb := newTestTables()
	tb.SetMode(ModeIntensity)
	tb.SetBackgroundColor(6)
	tb.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(0, 0, false, false, true)})
	tb.SetCells(PlaneB, 0, 0, 1, 1, []Cell{NewCell(0, 0, false, false, true)})

	if got := tb.Pixel(3, 3); got != green.Shadow() {
		t.Errorf("expected shadowed backdrop %v, got %v", green.Shadow(), got)
	}
}

func TestPixel_IntensityOperators(t *testing.T) {
	tb := newTestTables()
	tb.SetMode(ModeIntensity)
	tb.SetPatterns(30, []Pattern{solidPattern(14), solidPattern(15), solidPattern(5)})
	tb.SetCells(PlaneA, 0, 0, 4, 1, fillCells(NewCell(1, 0, false, false, false), 4, 1))
	tb.SetColorsSH(48, make([]Color, 16))
	tb.SetColorsSH(48+5, []Color{{10, 20, 30}})

	tb.SetSprites(0, []Sprite{
		NewSprite(0, 0, 1, 1, 1, NewCell(30, 3, false, false, false)),  // highlight operator
		NewSprite(8, 0, 1, 1, 2, NewCell(31, 3, false, false, false)),  // shadow operator
		NewSprite(16, 0, 1, 1, 3, NewCell(32, 3, false, false, false)), // palette 3, normal color
		NewSprite(24, 0, 1, 1, 0, NewCell(30, 3, false, false, true)),  // high priority: not an operator
	})

	if got := tb.Pixel(0, 0); got != red.Highlight() {
		t.Errorf("highlight operator: expected %v, got %v", red.Highlight(), got)
	}
	if got := tb.Pixel(8, 0); got != red.Shadow() {
		t.Errorf("shadow operator: expected %v, got %v", red.Shadow(), got)
	}
	if got := tb.Pixel(16, 0); got != (Color{10, 20, 30}) {
		t.Errorf("palette 3 sprite: expected normal brightness, got %v", got)
	}
	if got := tb.Pixel(24, 0); got != tb.Color(NormalBase+48+14) {
		t.Errorf("high priority palette 3 sprite: expected its own color, got %v", got)
	}
}

func TestPixel_NormalModeIgnoresShadowSlots(t *testing.T) {
	tb := NewTables()
	tb.SetColors(5, []Color{green})
	tb.SetColors(NormalBase+5, []Color{red})
	tb.SetPatterns(1, []Pattern{solidPattern(5)})
	tb.SetCells(PlaneB, 0, 0, 1, 1, []Cell{NewCell(1, 0, false, false, false)})
	if got := tb.Pixel(0, 0); got != red {
		t.Errorf("expected normal sub-palette %v, got %v", red, got)
	}
}
