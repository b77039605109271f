//go:build !libretro && !ios

// Package ebiten is the GPU backend built on Ebitengine. The tables are
// packed into two images and a Kage shader evaluates every framebuffer
// pixel in one draw.
package ebiten

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/user-none/emvdp/texture"
	"github.com/user-none/emvdp/vdp"
)

// Compile-time interface check.
var _ vdp.Device = (*Context)(nil)

// Context renders vdp tables with a Kage shader. It must be created and
// used from the Ebitengine game loop (Update or Draw).
type Context struct {
	*vdp.Tables

	atlas       *texture.Atlas
	data        *ebiten.Image
	planes      *ebiten.Image
	framebuffer *ebiten.Image
	post        *ebiten.Image
	compose     *ebiten.Shader
	shaders     *Manager
	postIDs     []string

	uniforms map[string]any
	drawOpts ebiten.DrawImageOptions
}

// NewContext compiles the compose shader and allocates the GPU images.
func NewContext() (*Context, error) {
	s, err := ebiten.NewShader(composeShaderSource())
	if err != nil {
		return nil, fmt.Errorf("failed to compile compose shader: %w", err)
	}
	c := &Context{
		Tables:      vdp.NewTables(),
		atlas:       texture.New(),
		data:        ebiten.NewImage(texture.Width, texture.Height),
		planes:      ebiten.NewImage(texture.Width, texture.Height),
		framebuffer: ebiten.NewImage(vdp.ScreenWidth, vdp.ScreenHeight),
		compose:     s,
		shaders:     NewManager(),
		uniforms:    make(map[string]any, 4),
	}
	vdp.Logger().Info("ebiten: context created")
	return c, nil
}

// Destroy releases GPU resources. Safe to call on a nil context.
func (c *Context) Destroy() {
	if c == nil || c.compose == nil {
		return
	}
	c.compose.Deallocate()
	c.compose = nil
	for _, img := range []*ebiten.Image{c.data, c.planes, c.framebuffer, c.post} {
		if img != nil {
			img.Deallocate()
		}
	}
	c.shaders.Dispose()
	c.Tables = nil
	vdp.Logger().Info("ebiten: context destroyed")
}

// SetPostShaders selects the post-process chain used by Present. Unknown
// IDs are returned as an error and the chain is left unchanged.
func (c *Context) SetPostShaders(ids []string) error {
	for _, id := range ids {
		if !c.shaders.HasShader(id) {
			return fmt.Errorf("unknown shader: %s", id)
		}
	}
	c.postIDs = append(c.postIDs[:0], ids...)
	return nil
}

func upload(img *ebiten.Image, pix []byte, r texture.Rows) {
	if r.Empty() {
		return
	}
	sub := img.SubImage(image.Rect(0, r.Lo, texture.Width, r.Hi)).(*ebiten.Image)
	sub.WritePixels(texture.RowBytes(pix, r))
}

// Render uploads dirty tables and evaluates the compose shader into the
// framebuffer.
func (c *Context) Render() error {
	if c.compose == nil {
		return fmt.Errorf("context destroyed")
	}
	dataRows, planeRows := c.atlas.Update(c.Tables, c.TakeDirty())
	upload(c.data, c.atlas.Data, dataRows)
	upload(c.planes, c.atlas.Planes, planeRows)
	if !dataRows.Empty() || !planeRows.Empty() {
		vdp.Logger().Debug("ebiten: upload", "data", dataRows, "planes", planeRows)
	}

	pw, ph := c.PlaneSize()
	wx, wy := c.WindowCoord()
	c.uniforms["Mode"] = float32(c.Mode())
	c.uniforms["Background"] = float32(c.BackgroundColor())
	c.uniforms["PlaneSize"] = []float32{float32(pw), float32(ph)}
	c.uniforms["Window"] = []float32{float32(wx), float32(wy)}

	op := &ebiten.DrawRectShaderOptions{Uniforms: c.uniforms, Blend: ebiten.BlendCopy}
	op.Images[0] = c.data
	op.Images[1] = c.planes
	c.framebuffer.DrawRectShader(vdp.ScreenWidth, vdp.ScreenHeight, c.compose, op)
	return nil
}

// Framebuffer returns the render target image.
func (c *Context) Framebuffer() *ebiten.Image {
	return c.framebuffer
}

// Present scales the framebuffer into the (x, y, w, h) rectangle of dst,
// running the post-process chain first when one is set.
func (c *Context) Present(dst *ebiten.Image, x, y, w, h int, f vdp.Filter) {
	src := c.framebuffer
	if len(c.postIDs) > 0 {
		if c.post == nil {
			c.post = ebiten.NewImage(vdp.ScreenWidth, vdp.ScreenHeight)
		}
		c.shaders.Apply(c.post, c.framebuffer, c.postIDs)
		src = c.post
	}

	c.drawOpts = ebiten.DrawImageOptions{}
	c.drawOpts.GeoM.Scale(float64(w)/vdp.ScreenWidth, float64(h)/vdp.ScreenHeight)
	c.drawOpts.GeoM.Translate(float64(x), float64(y))
	c.drawOpts.Filter = ebiten.FilterNearest
	if f == vdp.FilterBilinear {
		c.drawOpts.Filter = ebiten.FilterLinear
	}
	dst.DrawImage(src, &c.drawOpts)
}

// DrawToScreen presents the framebuffer at the largest integer zoom that
// fits screen, centered.
func (c *Context) DrawToScreen(screen *ebiten.Image, f vdp.Filter) {
	b := screen.Bounds()
	x, y, w, h := vdp.Fit(b.Dx(), b.Dy())
	c.Present(screen, b.Min.X+x, b.Min.Y+y, w, h, f)
}
