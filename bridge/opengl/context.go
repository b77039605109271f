//go:build !libretro && !ios

// Package opengl is the OpenGL 4.5 core backend. Every resource table is a
// texture, a single point is expanded to a full-screen quad and the fragment
// program composites each pixel into an offscreen framebuffer.
//
// All calls must be made on the thread that owns the current GL context.
package opengl

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/user-none/emvdp/vdp"
)

// Compile-time interface check.
var _ vdp.Device = (*Context)(nil)

// ErrIncompleteFramebuffer is returned when the render target cannot be
// attached.
var ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")

// Context renders vdp tables with OpenGL. Table writes land in the embedded
// Tables; Render uploads the dirty ranges before drawing.
type Context struct {
	*vdp.Tables

	program     uint32
	vao         uint32
	colors      uint32
	patterns    uint32
	sprites     uint32
	planes      uint32
	hscroll     uint32
	vscroll     uint32
	framebuffer uint32
	fbo         uint32

	stage stage
}

// NewContext loads GL entry points and creates the program, textures and
// framebuffer. A GL 4.5 context must be current.
func NewContext() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize gl: %w", err)
	}

	program, err := createProgram(
		shaderSource{gl.GEOMETRY_SHADER, geometryShader},
		shaderSource{gl.VERTEX_SHADER, vertexShader},
		shaderSource{gl.FRAGMENT_SHADER, fragmentShader},
	)
	if err != nil {
		return nil, err
	}

	c := &Context{Tables: vdp.NewTables(), program: program}
	gl.CreateVertexArrays(1, &c.vao)

	c.colors = newTexture(gl.TEXTURE_1D)
	gl.TextureStorage1D(c.colors, 1, gl.RGBA8, vdp.PaletteSlots)

	c.patterns = newTexture(gl.TEXTURE_2D_ARRAY)
	gl.TextureStorage3D(c.patterns, 1, gl.R32UI, 1, vdp.PatternHeight, vdp.PatternCount)

	c.sprites = newTexture(gl.TEXTURE_1D)
	gl.TextureStorage1D(c.sprites, 1, gl.RGBA16UI, vdp.SpriteCount)

	c.planes = newTexture(gl.TEXTURE_2D_ARRAY)
	gl.TextureStorage3D(c.planes, 1, gl.R16UI, vdp.PlaneMaxCells, vdp.PlaneMaxCells, vdp.PlaneCount)

	c.hscroll = newTexture(gl.TEXTURE_1D_ARRAY)
	gl.TextureStorage2D(c.hscroll, 1, gl.R16UI, vdp.HScrollCount, 2)

	c.vscroll = newTexture(gl.TEXTURE_1D_ARRAY)
	gl.TextureStorage2D(c.vscroll, 1, gl.R16UI, vdp.VScrollCount, 2)

	c.framebuffer = newTexture(gl.TEXTURE_2D)
	gl.TextureStorage2D(c.framebuffer, 1, gl.RGBA8, vdp.ScreenWidth, vdp.ScreenHeight)

	gl.CreateFramebuffers(1, &c.fbo)
	gl.NamedFramebufferTexture(c.fbo, gl.COLOR_ATTACHMENT0, c.framebuffer, 0)
	if status := gl.CheckNamedFramebufferStatus(c.fbo, gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		c.Destroy()
		return nil, fmt.Errorf("%w: status 0x%04x", ErrIncompleteFramebuffer, status)
	}

	vdp.Logger().Info("opengl: context created",
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)))
	return c, nil
}

func newTexture(target uint32) uint32 {
	var tex uint32
	gl.CreateTextures(target, 1, &tex)
	gl.TextureParameteri(tex, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TextureParameteri(tex, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return tex
}

// Destroy releases every GL object. Safe to call on a nil context.
func (c *Context) Destroy() {
	if c == nil || c.program == 0 {
		return
	}
	gl.DeleteProgram(c.program)
	gl.DeleteVertexArrays(1, &c.vao)
	textures := []uint32{c.colors, c.patterns, c.sprites, c.planes, c.hscroll, c.vscroll, c.framebuffer}
	gl.DeleteTextures(int32(len(textures)), &textures[0])
	gl.DeleteFramebuffers(1, &c.fbo)
	*c = Context{}
	vdp.Logger().Info("opengl: context destroyed")
}

type shaderSource struct {
	kind   uint32
	source string
}

// createProgram compiles and links the stages. Errors carry the info log.
func createProgram(stages ...shaderSource) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range stages {
		shader, err := compileShader(s.kind, s.source)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, shader)
		gl.DeleteShader(shader)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile %s shader: %s", stageName(kind), strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.GEOMETRY_SHADER:
		return "geometry"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return "unknown"
}

// upload copies the dirty table ranges into the textures and uniforms.
func (c *Context) upload(d vdp.Dirty) {
	if d.Params {
		gl.ProgramUniform1ui(c.program, uniformMode, uint32(c.Mode()))
		gl.ProgramUniform1ui(c.program, uniformBackground, uint32(c.BackgroundColor()))
		w, h := c.PlaneSize()
		gl.ProgramUniform2ui(c.program, uniformPlaneSize, uint32(w), uint32(h))
		x, y := c.WindowCoord()
		gl.ProgramUniform2i(c.program, uniformWindow, int32(x), int32(y))
	}

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if s := d.Colors; !s.Empty() {
		px := c.stage.colorRange(c.Tables, s.Lo, s.Hi)
		gl.TextureSubImage1D(c.colors, 0, int32(s.Lo), int32(s.Hi-s.Lo), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px))
	}
	if s := d.Patterns; !s.Empty() {
		px := c.stage.patternRange(c.Tables, s.Lo, s.Hi)
		gl.TextureSubImage3D(c.patterns, 0, 0, 0, int32(s.Lo), 1, vdp.PatternHeight, int32(s.Hi-s.Lo),
			gl.RED_INTEGER, gl.UNSIGNED_INT, gl.Ptr(px))
	}
	if s := d.Sprites; !s.Empty() {
		px := c.stage.spriteRange(c.Tables, s.Lo, s.Hi)
		gl.TextureSubImage1D(c.sprites, 0, int32(s.Lo), int32(s.Hi-s.Lo), gl.RGBA_INTEGER, gl.UNSIGNED_SHORT, gl.Ptr(px))
	}
	for p := vdp.PlaneA; p <= vdp.PlaneW; p++ {
		if s := d.Cells[p]; !s.Empty() {
			px := c.stage.cellRows(c.Tables, p, s.Lo, s.Hi)
			gl.TextureSubImage3D(c.planes, 0, 0, int32(s.Lo), int32(p), vdp.PlaneMaxCells, int32(s.Hi-s.Lo), 1,
				gl.RED_INTEGER, gl.UNSIGNED_SHORT, gl.Ptr(px))
		}
	}
	for p := vdp.PlaneA; p <= vdp.PlaneB; p++ {
		if s := d.HScroll[p]; !s.Empty() {
			px := c.stage.scrollRange(c.HScroll, p, s.Lo, s.Hi)
			gl.TextureSubImage2D(c.hscroll, 0, int32(s.Lo), int32(p), int32(s.Hi-s.Lo), 1,
				gl.RED_INTEGER, gl.UNSIGNED_SHORT, gl.Ptr(px))
		}
		if s := d.VScroll[p]; !s.Empty() {
			px := c.stage.scrollRange(c.VScroll, p, s.Lo, s.Hi)
			gl.TextureSubImage2D(c.vscroll, 0, int32(s.Lo), int32(p), int32(s.Hi-s.Lo), 1,
				gl.RED_INTEGER, gl.UNSIGNED_SHORT, gl.Ptr(px))
		}
	}
}

// Render uploads dirty tables and draws the frame into the offscreen
// framebuffer. GL state touched here is unbound afterwards.
func (c *Context) Render() error {
	if c.program == 0 {
		return errors.New("context destroyed")
	}
	c.upload(c.TakeDirty())

	gl.UseProgram(c.program)
	gl.BindVertexArray(c.vao)
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	for unit, tex := range []uint32{c.colors, c.patterns, c.sprites, c.planes, c.hscroll, c.vscroll} {
		gl.BindTextureUnit(uint32(unit), tex)
	}

	gl.Viewport(0, 0, vdp.ScreenWidth, vdp.ScreenHeight)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.DrawArrays(gl.POINTS, 0, 1)

	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	for unit := unitColors; unit <= unitVScroll; unit++ {
		gl.BindTextureUnit(uint32(unit), 0)
	}
	gl.UseProgram(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%04x during render", code)
	}
	return nil
}

// Present blits the framebuffer into the (x, y, w, h) rectangle of the
// default framebuffer. Coordinates follow GL: (x, y) is the bottom-left
// corner.
func (c *Context) Present(x, y, w, h int, f vdp.Filter) {
	filter := uint32(gl.NEAREST)
	if f == vdp.FilterBilinear {
		filter = gl.LINEAR
	}
	gl.BlitNamedFramebuffer(c.fbo, 0,
		0, 0, vdp.ScreenWidth, vdp.ScreenHeight,
		int32(x), int32(y), int32(x+w), int32(y+h),
		gl.COLOR_BUFFER_BIT, filter)
}

// ReadPixels copies the framebuffer into an RGBA image, top row first.
func (c *Context) ReadPixels() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, vdp.ScreenWidth, vdp.ScreenHeight))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTextureImage(c.framebuffer, 0, gl.RGBA, gl.UNSIGNED_BYTE, int32(len(img.Pix)), gl.Ptr(img.Pix))
	flipRows(img.Pix, img.Stride)
	return img
}

// flipRows reverses the row order of a packed image in place.
func flipRows(pix []byte, stride int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, len(pix)/stride-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
