//go:build !libretro && !ios

package ebiten

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/user-none/emvdp/vdp"
)

// Post-process shader IDs.
const (
	ShaderScanlines  = "scanlines"
	ShaderMonochrome = "monochrome"
)

// shaderSources maps post-process shader IDs to their Kage source code
var shaderSources = map[string][]byte{
	ShaderScanlines:  []byte(scanlinesShaderSrc),
	ShaderMonochrome: []byte(monochromeShaderSrc),
}

// ShaderIDs returns the known post-process shader IDs.
func ShaderIDs() []string {
	return []string{ShaderScanlines, ShaderMonochrome}
}

// Manager handles post-process shader compilation, caching, and application
type Manager struct {
	shaders map[string]*ebiten.Shader

	// Intermediate buffers for shader chaining
	buffers [2]*ebiten.Image
}

// NewManager creates a new shader manager
func NewManager() *Manager {
	return &Manager{
		shaders: make(map[string]*ebiten.Shader),
	}
}

// LoadShader compiles and caches a shader by ID
func (m *Manager) LoadShader(id string) error {
	if _, ok := m.shaders[id]; ok {
		return nil
	}

	src, ok := shaderSources[id]
	if !ok {
		return fmt.Errorf("unknown shader: %s", id)
	}

	shader, err := ebiten.NewShader(src)
	if err != nil {
		return fmt.Errorf("failed to compile shader %s: %w", id, err)
	}

	m.shaders[id] = shader
	return nil
}

func (m *Manager) buffer(i, width, height int) *ebiten.Image {
	if b := m.buffers[i]; b != nil {
		if b.Bounds().Dx() == width && b.Bounds().Dy() == height {
			return b
		}
		b.Deallocate()
	}
	m.buffers[i] = ebiten.NewImage(width, height)
	return m.buffers[i]
}

// Apply draws src to dst at the same size through the shader chain.
// Shaders that fail to load are skipped with a warning. Returns false if
// src was copied directly.
func (m *Manager) Apply(dst, src *ebiten.Image, ids []string) bool {
	valid := make([]*ebiten.Shader, 0, len(ids))
	for _, id := range ids {
		if err := m.LoadShader(id); err != nil {
			vdp.Logger().Warn("ebiten: shader not available", "id", id, "err", err)
			continue
		}
		valid = append(valid, m.shaders[id])
	}

	if len(valid) == 0 {
		dst.DrawImage(src, &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy})
		return false
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	in := src
	for i, s := range valid {
		out := dst
		if i < len(valid)-1 {
			out = m.buffer(i%2, w, h)
		}
		op := &ebiten.DrawRectShaderOptions{Blend: ebiten.BlendCopy}
		op.Images[0] = in
		out.DrawRectShader(w, h, s, op)
		in = out
	}
	return true
}

// HasShader returns true if the shader ID is available
func (m *Manager) HasShader(id string) bool {
	_, ok := shaderSources[id]
	return ok
}

// IsLoaded returns true if the shader is compiled and ready
func (m *Manager) IsLoaded(id string) bool {
	_, ok := m.shaders[id]
	return ok
}

// Dispose releases compiled shaders and buffers.
func (m *Manager) Dispose() {
	for id, s := range m.shaders {
		s.Deallocate()
		delete(m.shaders, id)
	}
	for i, b := range m.buffers {
		if b != nil {
			b.Deallocate()
			m.buffers[i] = nil
		}
	}
}
