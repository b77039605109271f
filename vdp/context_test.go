package vdp

import (
	"image"
	"image/color"
	"testing"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	c, err := NewContext()
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(c.Destroy)
	return c
}

// TestContext_RenderEndToEnd fills an 8x8 cell block of plane A with a red
// pattern and checks the framebuffer.
func TestContext_RenderEndToEnd(t *testing.T) {
	c := newTestContext(t)
	pal := make([]Color, 16)
	pal[5] = red
	c.SetColorsSH(0, pal)
	c.SetPatterns(1, []Pattern{solidPattern(5)})
	c.SetCells(PlaneA, 0, 0, 8, 8, fillCells(NewCell(1, 0, false, false, false), 8, 8))

	if err := c.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	fb := c.Framebuffer()
	want := color.RGBA{R: 255, A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if got := fb.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
	if got := fb.RGBAAt(64, 64); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel (64,64): expected opaque black, got %v", got)
	}
}

func TestContext_BandsMatchPixel(t *testing.T) {
	c := newTestContext(t)
	c.CopyFrom(newTestTables())
	for i := 0; i < 40; i++ {
		c.SetCells(PlaneB, i, i%28, 1, 1, []Cell{NewCell(uint16(1+i%3), 0, i%2 == 0, false, false)})
	}
	c.SetHScroll(PlaneB, 0, []int16{3, -7, 11})
	c.SetWindowCoord(-296, 0)

	for _, bands := range []int{1, 3, 7, 224, 1000} {
		c.SetBands(bands)
		if err := c.Render(); err != nil {
			t.Fatalf("Render with %d bands: %v", bands, err)
		}
		fb := c.Framebuffer()
		for y := 0; y < ScreenHeight; y += 13 {
			for x := 0; x < ScreenWidth; x += 7 {
				if got, want := fb.RGBAAt(x, y), c.Pixel(x, y).RGBA(); got != want {
					t.Fatalf("bands=%d pixel (%d,%d): expected %v, got %v", bands, x, y, want, got)
				}
			}
		}
	}
}

func TestContext_RenderClearsDirty(t *testing.T) {
	c := newTestContext(t)
	c.SetColors(0, []Color{red})
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}
	if d := c.TakeDirty(); d.Any() {
		t.Errorf("expected no dirty ranges after Render, got %+v", d)
	}
}

func TestContext_PresentNearest(t *testing.T) {
	c := newTestContext(t)
	c.SetColors(NormalBase, []Color{blue})
	c.SetColorsSH(16, []Color{{}, red})
	c.SetPatterns(1, []Pattern{solidPattern(1)})
	c.SetCells(PlaneA, 0, 0, 1, 1, []Cell{NewCell(1, 1, false, false, false)})
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 1000, 700))
	x, y, w, h := Fit(1000, 700)
	if x != 20 || y != 14 || w != 960 || h != 672 {
		t.Fatalf("Fit: got (%d,%d,%d,%d)", x, y, w, h)
	}
	c.Present(dst, x, y, w, h, FilterNearest)

	// Cell (0,0) is 8x8 source pixels = 24x24 destination pixels at 3x.
	if got := dst.RGBAAt(x+23, y+23); got != red.RGBA() {
		t.Errorf("inside zoomed cell: expected %v, got %v", red.RGBA(), got)
	}
	if got := dst.RGBAAt(x+24, y); got != blue.RGBA() {
		t.Errorf("next zoomed cell: expected %v, got %v", blue.RGBA(), got)
	}
	// Letterbox area is untouched.
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("letterbox written: %v", got)
	}
}

func TestContext_PresentBilinear(t *testing.T) {
	c := newTestContext(t)
	c.SetColors(NormalBase, []Color{{200, 100, 50}})
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, 640, 448))
	c.Present(dst, 0, 0, 640, 448, FilterBilinear)
	// A flat image stays flat under bilinear filtering.
	if got := dst.RGBAAt(333, 111); got != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("expected flat color, got %v", got)
	}
}

func TestFit_Small(t *testing.T) {
	x, y, w, h := Fit(100, 100)
	if w != ScreenWidth || h != ScreenHeight || x != -110 || y != -62 {
		t.Errorf("expected zoom 1 centred, got (%d,%d,%d,%d)", x, y, w, h)
	}
}

func TestContext_DestroyNil(t *testing.T) {
	var c *Context
	c.Destroy()
}

func TestParseFilter(t *testing.T) {
	if ParseFilter("bilinear") != FilterBilinear || ParseFilter("linear") != FilterBilinear {
		t.Error("bilinear names not recognised")
	}
	if ParseFilter("nearest") != FilterNearest || ParseFilter("bogus") != FilterNearest {
		t.Error("nearest fallback broken")
	}
}
