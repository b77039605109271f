package vdp

import "testing"

func TestColor_ShadowHighlight(t *testing.T) {
	tests := []struct {
		in        Color
		shadow    Color
		highlight Color
	}{
		{Color{0, 0, 0}, Color{0, 0, 0}, Color{128, 128, 128}},
		{Color{255, 254, 1}, Color{127, 127, 0}, Color{255, 255, 128}},
		{Color{100, 200, 51}, Color{50, 100, 25}, Color{178, 228, 153}},
	}
	for _, tt := range tests {
		if got := tt.in.Shadow(); got != tt.shadow {
			t.Errorf("Shadow(%v): expected %v, got %v", tt.in, tt.shadow, got)
		}
		if got := tt.in.Highlight(); got != tt.highlight {
			t.Errorf("Highlight(%v): expected %v, got %v", tt.in, tt.highlight, got)
		}
	}
}

func TestColor_HighlightRange(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := Color{uint8(v), uint8(v), uint8(v)}.Highlight()
		if want := v/2 + 128; int(c.R) != want {
			t.Fatalf("Highlight(%d): expected %d, got %d", v, want, c.R)
		}
	}
}

func TestColorFromCRAM(t *testing.T) {
	tests := []struct {
		word uint16
		want Color
	}{
		{0x0000, Color{0, 0, 0}},
		{0x000E, Color{255, 0, 0}},
		{0x00E0, Color{0, 255, 0}},
		{0x0E00, Color{0, 0, 255}},
		{0x0EEE, Color{255, 255, 255}},
		{0x0002, Color{36, 0, 0}},
	}
	for _, tt := range tests {
		if got := ColorFromCRAM(tt.word); got != tt.want {
			t.Errorf("ColorFromCRAM(0x%04X): expected %v, got %v", tt.word, tt.want, got)
		}
	}
}

func TestSetColorsSH_Offsets(t *testing.T) {
	tb := NewTables()
	tb.SetColorsSH(3, []Color{{200, 100, 50}})

	if got := tb.Color(3); got != (Color{100, 50, 25}) {
		t.Errorf("shadow slot: got %v", got)
	}
	if got := tb.Color(67); got != (Color{200, 100, 50}) {
		t.Errorf("normal slot: got %v", got)
	}
	if got := tb.Color(131); got != (Color{228, 178, 153}) {
		t.Errorf("highlight slot: got %v", got)
	}
	if got := tb.Color(4); got != black {
		t.Errorf("neighbouring slot written: got %v", got)
	}
}
