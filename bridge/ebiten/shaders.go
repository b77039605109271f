//go:build !libretro && !ios

package ebiten

import (
	"strconv"
	"strings"

	"github.com/user-none/emvdp/texture"
	"github.com/user-none/emvdp/vdp"
)

// composeShaderTemplate evaluates one framebuffer pixel per fragment. Kage
// has no integer bit operations on all targets, so record fields are
// extracted with floor/mod arithmetic. Values in $Name form are replaced
// with the layout constants before compilation.
//
// imageSrc0 is the data image (patterns, palette, sprites, scroll tables);
// imageSrc1 is the plane image.
const composeShaderTemplate = `//kage:unit pixels
package main

var Mode float
var Background float
var PlaneSize vec2
var Window vec2

func bits(v, shift, count float) float {
	return mod(floor(v/exp2(shift)), exp2(count))
}

func byteOf(v float) float {
	return floor(v*255.0 + 0.5)
}

func texelPos(i float) vec2 {
	return vec2(mod(i, $Width), floor(i/$Width)) + 0.5
}

func dataTexel(i float) vec4 {
	return imageSrc0At(texelPos(i) + imageSrc0Origin())
}

func dataWord(i float) float {
	t := dataTexel(i)
	return byteOf(t.r) + byteOf(t.g)*256.0
}

func signed16(v float) float {
	if v >= 32768.0 {
		return v - 65536.0
	}
	return v
}

func cellAt(plane, cx, cy float) float {
	t := imageSrc1At(texelPos(plane*$PlaneStride+cy*$PlaneMaxCells+cx) + imageSrc1Origin())
	return byteOf(t.r) + byteOf(t.g)*256.0
}

func patternPixel(tile, px, py float) float {
	swapped := px + 1.0 - 2.0*mod(px, 2.0)
	w := dataWord($PatternBase + (tile*8.0+py)*2.0 + floor(px/4.0))
	return bits(w, mod(swapped*4.0, 16.0), 4.0)
}

// Layer pixels are vec3(index, palette, priority). Index 0 is transparent.
func cellPixel(c, px, py float) vec3 {
	fx := px
	fy := py
	if bits(c, 11.0, 1.0) > 0.0 {
		fx = 7.0 - px
	}
	if bits(c, 12.0, 1.0) > 0.0 {
		fy = 7.0 - py
	}
	return vec3(patternPixel(bits(c, 0.0, 11.0), fx, fy), bits(c, 13.0, 2.0), bits(c, 15.0, 1.0))
}

func planePixel(plane, x, y float) vec3 {
	hs := signed16(dataWord($HScrollBase + plane*$HScrollCount + y))
	vs := signed16(dataWord($VScrollBase + plane*$VScrollCount + floor(x/16.0)))
	px := mod(x-hs, PlaneSize.x*8.0)
	py := mod(y+vs, PlaneSize.y*8.0)
	c := cellAt(plane, floor(px/8.0), floor(py/8.0))
	return cellPixel(c, mod(px, 8.0), mod(py, 8.0))
}

func inAxis(pos, coord float) bool {
	if coord > 0.0 {
		return pos < coord
	}
	if coord < 0.0 {
		return pos >= -coord
	}
	return false
}

func windowPixel(x, y float) vec3 {
	c := cellAt(2.0, floor(x/8.0), floor(y/8.0))
	return cellPixel(c, mod(x, 8.0), mod(y, 8.0))
}

func spritePixel(x, y float) vec3 {
	idx := 0.0
	for hop := 0; hop < $SpriteCount; hop++ {
		base := $SpriteBase + idx*4.0
		size := dataWord(base + 1.0)
		attr := dataWord(base + 2.0)
		w := bits(size, 10.0, 2.0) + 1.0
		h := bits(size, 8.0, 2.0) + 1.0
		lx := x - (mod(dataWord(base+3.0), 512.0) - $SpriteOffset)
		ly := y - (mod(dataWord(base), 1024.0) - $SpriteOffset)
		if lx >= 0.0 && ly >= 0.0 && lx < w*8.0 && ly < h*8.0 {
			if bits(attr, 11.0, 1.0) > 0.0 {
				lx = w*8.0 - 1.0 - lx
			}
			if bits(attr, 12.0, 1.0) > 0.0 {
				ly = h*8.0 - 1.0 - ly
			}
			tile := mod(bits(attr, 0.0, 11.0)+floor(lx/8.0)*h+floor(ly/8.0), $PatternCount)
			i := patternPixel(tile, mod(lx, 8.0), mod(ly, 8.0))
			if i > 0.0 {
				return vec3(i, bits(attr, 13.0, 2.0), bits(attr, 15.0, 1.0))
			}
		}
		next := bits(size, 0.0, 7.0)
		if next == 0.0 {
			break
		}
		idx = next
	}
	return vec3(0)
}

func backdrop() vec3 {
	return vec3(mod(Background, 16.0), floor(Background/16.0), 0)
}

func lookup(p vec3, base float) vec3 {
	return dataTexel($PaletteBase + base + p.y*16.0 + p.x).rgb
}

func pick(s, a, b vec3) vec3 {
	if s.x > 0.0 && s.z > 0.0 {
		return s
	}
	if a.x > 0.0 && a.z > 0.0 {
		return a
	}
	if b.x > 0.0 && b.z > 0.0 {
		return b
	}
	if s.x > 0.0 {
		return s
	}
	if a.x > 0.0 {
		return a
	}
	if b.x > 0.0 {
		return b
	}
	return backdrop()
}

func composeIntensity(s, a, b vec3) vec3 {
	if s.x > 0.0 && s.z > 0.0 {
		return lookup(s, $NormalBase)
	}
	if a.x > 0.0 && a.z > 0.0 {
		return lookup(a, $NormalBase)
	}
	if b.x > 0.0 && b.z > 0.0 {
		return lookup(b, $NormalBase)
	}
	if s.x > 0.0 {
		if s.y == 3.0 && s.x >= 14.0 {
			under := backdrop()
			if a.x > 0.0 {
				under = a
			} else if b.x > 0.0 {
				under = b
			}
			if s.x == 14.0 {
				return lookup(under, $HighlightBase)
			}
			return lookup(under, $ShadowBase)
		}
		if s.y == 3.0 {
			return lookup(s, $NormalBase)
		}
		return lookup(s, $ShadowBase)
	}
	if a.x > 0.0 {
		return lookup(a, $ShadowBase)
	}
	if b.x > 0.0 {
		return lookup(b, $ShadowBase)
	}
	return lookup(backdrop(), $ShadowBase)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	pos := floor(dst.xy - imageDstOrigin())
	x := pos.x
	y := pos.y

	a := vec3(0)
	if inAxis(x, Window.x) || inAxis(y, Window.y) {
		w := windowPixel(x, y)
		if w.x > 0.0 {
			base := $NormalBase
			if Mode > 0.0 && w.z == 0.0 {
				base = $ShadowBase
			}
			return vec4(lookup(w, base), 1)
		}
	} else {
		a = planePixel(0.0, x, y)
	}
	b := planePixel(1.0, x, y)
	s := spritePixel(x, y)

	if Mode > 0.0 {
		return vec4(composeIntensity(s, a, b), 1)
	}
	return vec4(lookup(pick(s, a, b), $NormalBase), 1)
}
`

func kageFloat(v int) string {
	return strconv.Itoa(v) + ".0"
}

// composeShaderSource returns the compose shader with layout constants
// filled in.
func composeShaderSource() []byte {
	r := strings.NewReplacer(
		"$Width", kageFloat(texture.Width),
		"$PlaneStride", kageFloat(texture.PlaneStride),
		"$PlaneMaxCells", kageFloat(vdp.PlaneMaxCells),
		"$PatternBase", kageFloat(texture.PatternBase),
		"$PatternCount", kageFloat(vdp.PatternCount),
		"$PaletteBase", kageFloat(texture.PaletteBase),
		"$SpriteBase", kageFloat(texture.SpriteBase),
		"$SpriteCount", strconv.Itoa(vdp.SpriteCount),
		"$SpriteOffset", kageFloat(vdp.SpriteOffset),
		"$HScrollBase", kageFloat(texture.HScrollBase),
		"$HScrollCount", kageFloat(vdp.HScrollCount),
		"$VScrollBase", kageFloat(texture.VScrollBase),
		"$VScrollCount", kageFloat(vdp.VScrollCount),
		"$ShadowBase", kageFloat(vdp.ShadowBase),
		"$NormalBase", kageFloat(vdp.NormalBase),
		"$HighlightBase", kageFloat(vdp.HighlightBase),
	)
	return []byte(r.Replace(composeShaderTemplate))
}

const scanlinesShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if mod(floor(src.y-imageSrc0Origin().y), 2.0) == 1.0 {
		return vec4(c.rgb*0.65, c.a)
	}
	return c
}
`

const monochromeShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	lum := 0.299*c.r + 0.587*c.g + 0.114*c.b
	return vec4(lum, lum, lum, c.a)
}
`
