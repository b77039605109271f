//go:build !libretro && !ios

package opengl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/user-none/emvdp/vdp"
)

func TestStage_ColorRange(t *testing.T) {
	tb := vdp.NewTables()
	tb.SetColors(70, []vdp.Color{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}})

	var s stage
	got := s.colorRange(tb, 70, 72)
	want := []uint8{1, 2, 3, 0xFF, 4, 5, 6, 0xFF}
	if string(got) != string(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStage_PatternRange(t *testing.T) {
	tb := vdp.NewTables()
	p := vdp.Pattern{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}
	tb.SetPatterns(5, []vdp.Pattern{p})

	var s stage
	got := s.patternRange(tb, 4, 6)
	if len(got) != 16 {
		t.Fatalf("expected 16 rows, got %d", len(got))
	}
	for row := 0; row < 8; row++ {
		if got[8+row] != p[row] {
			t.Errorf("row %d: expected 0x%x, got 0x%x", row, p[row], got[8+row])
		}
	}
}

func TestStage_SpriteRange(t *testing.T) {
	tb := vdp.NewTables()
	sp := vdp.NewSprite(10, 20, 2, 3, 7, vdp.Cell(0x8123))
	tb.SetSprites(3, []vdp.Sprite{sp})

	var s stage
	got := s.spriteRange(tb, 3, 4)
	want := []uint16{sp.Y, sp.Size, 0x8123, sp.X}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: expected 0x%x, got 0x%x", i, want[i], got[i])
		}
	}
}

func TestStage_CellRowsAndScroll(t *testing.T) {
	tb := vdp.NewTables()
	tb.SetCells(vdp.PlaneB, 127, 2, 1, 1, []vdp.Cell{0x1234})
	tb.SetHScroll(vdp.PlaneA, 3, []int16{-1, 5})

	var s stage
	cells := s.cellRows(tb, vdp.PlaneB, 1, 3)
	if len(cells) != 2*vdp.PlaneMaxCells {
		t.Fatalf("expected %d cells, got %d", 2*vdp.PlaneMaxCells, len(cells))
	}
	if cells[vdp.PlaneMaxCells+127] != 0x1234 {
		t.Errorf("expected 0x1234, got 0x%x", cells[vdp.PlaneMaxCells+127])
	}

	scroll := s.scrollRange(tb.HScroll, vdp.PlaneA, 3, 5)
	if scroll[0] != 0xFFFF || scroll[1] != 5 {
		t.Errorf("expected [0xffff 5], got %v", scroll)
	}
}

func TestFlipRows(t *testing.T) {
	pix := []byte{1, 1, 2, 2, 3, 3}
	flipRows(pix, 2)
	if string(pix) != string([]byte{3, 3, 2, 2, 1, 1}) {
		t.Errorf("got %v", pix)
	}
}

// TestFragmentShaderBindings verifies the program declares the locations
// and units the context binds.
func TestFragmentShaderBindings(t *testing.T) {
	for _, want := range []string{
		fmt.Sprintf("layout(location = %d) uniform uint mode;", uniformMode),
		fmt.Sprintf("layout(location = %d) uniform uint background;", uniformBackground),
		fmt.Sprintf("layout(location = %d) uniform uvec2 planeSize;", uniformPlaneSize),
		fmt.Sprintf("layout(location = %d) uniform ivec2 window;", uniformWindow),
		fmt.Sprintf("layout(binding = %d) uniform sampler1D colors;", unitColors),
		fmt.Sprintf("layout(binding = %d) uniform usampler2DArray patterns;", unitPatterns),
		fmt.Sprintf("layout(binding = %d) uniform usampler1D sprites;", unitSprites),
		fmt.Sprintf("layout(binding = %d) uniform usampler2DArray planes;", unitPlanes),
		fmt.Sprintf("layout(binding = %d) uniform usampler1DArray hscroll;", unitHScroll),
		fmt.Sprintf("layout(binding = %d) uniform usampler1DArray vscroll;", unitVScroll),
	} {
		if !strings.Contains(fragmentShader, want) {
			t.Errorf("fragment shader missing %q", want)
		}
	}
	if !strings.Contains(geometryShader, "max_vertices = 4") {
		t.Error("geometry stage should emit a 4-vertex strip")
	}
}
