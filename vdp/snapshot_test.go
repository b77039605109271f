package vdp

import (
	"errors"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	src := newTestTables()
	src.SetMode(ModeIntensity)
	src.SetBackgroundColor(33)
	src.SetPlaneSize(128, 64)
	src.SetWindowCoord(-40, 16)
	src.SetSprites(3, []Sprite{NewSprite(-5, 17, 4, 3, 9, NewCell(100, 2, true, true, true))})
	src.SetCells(PlaneW, 127, 127, 1, 1, []Cell{0xFFFF})
	src.SetHScroll(PlaneB, 255, []int16{-32768})
	src.SetVScroll(PlaneA, 19, []int16{32767})

	data := Serialize(src)
	if len(data) != SnapshotSize {
		t.Fatalf("expected %d bytes, got %d", SnapshotSize, len(data))
	}

	dst := NewTables()
	if err := Deserialize(dst, data); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if dst.Mode() != ModeIntensity || dst.BackgroundColor() != 33 {
		t.Error("params not restored")
	}
	if w, h := dst.PlaneSize(); w != 128 || h != 64 {
		t.Errorf("plane size: got %dx%d", w, h)
	}
	if x, y := dst.WindowCoord(); x != -40 || y != 16 {
		t.Errorf("window: got (%d,%d)", x, y)
	}
	if dst.Sprite(3) != src.Sprite(3) {
		t.Errorf("sprite: expected %+v, got %+v", src.Sprite(3), dst.Sprite(3))
	}
	if dst.Cell(PlaneW, 127, 127) != 0xFFFF {
		t.Error("last cell not restored")
	}
	if dst.HScroll(PlaneB, 255) != -32768 || dst.VScroll(PlaneA, 19) != 32767 {
		t.Error("scroll extremes not restored")
	}
	if dst.Pattern(3) != src.Pattern(3) || dst.Color(HighlightBase+5) != red.Highlight() {
		t.Error("patterns or palette not restored")
	}
	for y := 0; y < ScreenHeight; y += 17 {
		for x := 0; x < ScreenWidth; x += 19 {
			if src.Pixel(x, y) != dst.Pixel(x, y) {
				t.Fatalf("pixel (%d,%d) differs after round trip", x, y)
			}
		}
	}
}

func TestSnapshot_Verify(t *testing.T) {
	data := Serialize(NewTables())

	if err := VerifySnapshot(data[:100]); !errors.Is(err, ErrSnapshotShort) {
		t.Errorf("short: expected ErrSnapshotShort, got %v", err)
	}

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	if err := VerifySnapshot(bad); !errors.Is(err, ErrSnapshotMagic) {
		t.Errorf("magic: expected ErrSnapshotMagic, got %v", err)
	}

	bad = append([]byte(nil), data...)
	bad[10] = 99
	if err := VerifySnapshot(bad); !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("version: expected ErrSnapshotVersion, got %v", err)
	}

	bad = append([]byte(nil), data...)
	bad[SnapshotSize-1] ^= 0xFF
	if err := VerifySnapshot(bad); !errors.Is(err, ErrSnapshotCorrupt) {
		t.Errorf("payload: expected ErrSnapshotCorrupt, got %v", err)
	}
}

func TestSnapshot_FailedLoadLeavesTables(t *testing.T) {
	tb := newTestTables()
	before := Serialize(tb)
	if err := Deserialize(tb, []byte("nope")); err == nil {
		t.Fatal("expected error")
	}
	if string(Serialize(tb)) != string(before) {
		t.Error("tables modified by failed load")
	}
}
