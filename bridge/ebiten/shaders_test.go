//go:build !libretro && !ios

package ebiten

import (
	"strings"
	"testing"
)

// TestComposeShaderSource verifies every layout placeholder is filled in
func TestComposeShaderSource(t *testing.T) {
	src := string(composeShaderSource())
	if !strings.HasPrefix(src, "//kage:unit pixels\npackage main") {
		t.Fatal("missing kage header")
	}
	if i := strings.IndexByte(src, '$'); i >= 0 {
		end := min(i+20, len(src))
		t.Errorf("unreplaced placeholder near %q", src[i:end])
	}
	for _, want := range []string{
		"mod(i, 320.0)",
		"dataTexel(32768.0 + base",
		"hop < 128;",
		"dataWord(33472.0 + plane*256.0 + y)",
		"dataWord(33984.0 + plane*20.0 + floor(x/16.0))",
		"plane*16384.0+cy*128.0+cx",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expected %q in compose shader", want)
		}
	}
}

// TestShaderRegistry verifies post-process IDs map to sources
func TestShaderRegistry(t *testing.T) {
	m := NewManager()
	for _, id := range ShaderIDs() {
		if !m.HasShader(id) {
			t.Errorf("shader %s not registered", id)
		}
		if m.IsLoaded(id) {
			t.Errorf("shader %s should not be compiled yet", id)
		}
	}
	if m.HasShader("crt") {
		t.Error("unexpected shader crt")
	}
	if err := m.LoadShader("crt"); err == nil {
		t.Error("expected error for unknown shader")
	}
}
