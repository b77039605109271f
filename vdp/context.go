package vdp

import (
	"image"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface check.
var _ Device = (*Context)(nil)

// Context is the software renderer. It owns the tables and a fixed
// 320x224 RGBA framebuffer. Calls must be serialized by the caller.
type Context struct {
	*Tables

	framebuffer *image.RGBA
	bands       int
}

// NewContext allocates tables and the framebuffer. The software backend
// cannot fail; the error return matches the GPU backends.
func NewContext() (*Context, error) {
	c := &Context{
		Tables:      NewTables(),
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		bands:       runtime.NumCPU(),
	}
	Logger().Info("vdp: software context created", "bands", c.bands)
	return c, nil
}

// Destroy releases the context. Safe to call on a nil context.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	c.Tables = nil
	c.framebuffer = nil
	Logger().Info("vdp: software context destroyed")
}

// SetBands sets how many row bands Render evaluates concurrently.
// Values below 1 select a single band.
func (c *Context) SetBands(n int) {
	if n < 1 {
		n = 1
	}
	if n > ScreenHeight {
		n = ScreenHeight
	}
	c.bands = n
}

// Render composites every pixel of the framebuffer from the current tables.
func (c *Context) Render() error {
	c.TakeDirty()

	var g errgroup.Group
	for band := 0; band < c.bands; band++ {
		y0 := band * ScreenHeight / c.bands
		y1 := (band + 1) * ScreenHeight / c.bands
		g.Go(func() error {
			c.renderRows(y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func (c *Context) renderRows(y0, y1 int) {
	pix := c.framebuffer.Pix
	stride := c.framebuffer.Stride
	for y := y0; y < y1; y++ {
		off := y * stride
		for x := 0; x < ScreenWidth; x++ {
			col := c.Pixel(x, y)
			pix[off] = col.R
			pix[off+1] = col.G
			pix[off+2] = col.B
			pix[off+3] = 0xFF
			off += 4
		}
	}
}

// Framebuffer returns the render target. It is overwritten by Render.
func (c *Context) Framebuffer() *image.RGBA {
	return c.framebuffer
}

// Present scales the framebuffer into the (x, y, w, h) rectangle of dst.
// Aspect ratio and letterboxing are the caller's responsibility.
func (c *Context) Present(dst draw.Image, x, y, w, h int, f Filter) {
	var interp draw.Interpolator = draw.NearestNeighbor
	if f == FilterBilinear {
		interp = draw.BiLinear
	}
	interp.Scale(dst, image.Rect(x, y, x+w, y+h), c.framebuffer, c.framebuffer.Bounds(), draw.Src, nil)
}

// Fit returns the largest integer zoom of the framebuffer that fits in a
// width x height surface and the offsets that center it. The zoom is at
// least 1.
func Fit(width, height int) (x, y, w, h int) {
	zoom := min(width/ScreenWidth, height/ScreenHeight)
	if zoom < 1 {
		zoom = 1
	}
	w = ScreenWidth * zoom
	h = ScreenHeight * zoom
	return (width - w) / 2, (height - h) / 2, w, h
}
