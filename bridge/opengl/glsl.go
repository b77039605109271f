//go:build !libretro && !ios

package opengl

// Uniform locations shared by the Go side and the fragment program.
const (
	uniformMode       = 0
	uniformBackground = 1
	uniformPlaneSize  = 2
	uniformWindow     = 3
)

// Texture units.
const (
	unitColors = iota
	unitPatterns
	unitSprites
	unitPlanes
	unitHScroll
	unitVScroll
)

// The vertex stage emits nothing; the geometry stage expands the single
// point drawn by Render into a full-screen triangle strip.
const vertexShader = `#version 450 core

void main() {
	gl_Position = vec4(0.0, 0.0, 0.0, 1.0);
}
`

const geometryShader = `#version 450 core

layout(points) in;
layout(triangle_strip, max_vertices = 4) out;

void main() {
	gl_Position = vec4(-1.0, -1.0, 0.0, 1.0);
	EmitVertex();
	gl_Position = vec4(1.0, -1.0, 0.0, 1.0);
	EmitVertex();
	gl_Position = vec4(-1.0, 1.0, 0.0, 1.0);
	EmitVertex();
	gl_Position = vec4(1.0, 1.0, 0.0, 1.0);
	EmitVertex();
	EndPrimitive();
}
`

// fragmentShader evaluates one framebuffer pixel. Screen row 0 is the top
// row, so the framebuffer is stored top-down relative to GL's bottom-left
// origin and a blit to the default framebuffer shows it upright.
const fragmentShader = `#version 450 core

layout(origin_upper_left) in vec4 gl_FragCoord;

layout(location = 0) uniform uint mode;
layout(location = 1) uniform uint background;
layout(location = 2) uniform uvec2 planeSize;
layout(location = 3) uniform ivec2 window;

layout(binding = 0) uniform sampler1D colors;
layout(binding = 1) uniform usampler2DArray patterns;
layout(binding = 2) uniform usampler1D sprites;
layout(binding = 3) uniform usampler2DArray planes;
layout(binding = 4) uniform usampler1DArray hscroll;
layout(binding = 5) uniform usampler1DArray vscroll;

layout(location = 0) out vec4 fragColor;

const uint SHADOW = 0u;
const uint NORMAL = 64u;
const uint HIGHLIGHT = 128u;

struct Layer {
	uint index;
	uint palette;
	bool priority;
};

const Layer transparent = Layer(0u, 0u, false);

uint patternPixel(uint tile, int px, int py) {
	uint row = texelFetch(patterns, ivec3(0, py, int(tile)), 0).r;
	return (row >> (uint(px ^ 1) * 4u)) & 15u;
}

Layer cellPixel(uint cell, int px, int py) {
	if ((cell & 0x0800u) != 0u) {
		px = 7 - px;
	}
	if ((cell & 0x1000u) != 0u) {
		py = 7 - py;
	}
	return Layer(patternPixel(cell & 0x07FFu, px, py), (cell >> 13) & 3u, (cell & 0x8000u) != 0u);
}

Layer planePixel(int plane, int x, int y) {
	int hs = bitfieldExtract(int(texelFetch(hscroll, ivec2(y, plane), 0).r), 0, 16);
	int vs = bitfieldExtract(int(texelFetch(vscroll, ivec2(x / 16, plane), 0).r), 0, 16);
	int px = (x - hs) & (int(planeSize.x) * 8 - 1);
	int py = (y + vs) & (int(planeSize.y) * 8 - 1);
	uint cell = texelFetch(planes, ivec3(px >> 3, py >> 3, plane), 0).r;
	return cellPixel(cell, px & 7, py & 7);
}

bool inAxis(int pos, int coord) {
	if (coord > 0) {
		return pos < coord;
	}
	if (coord < 0) {
		return pos >= -coord;
	}
	return false;
}

Layer windowPixel(int x, int y) {
	uint cell = texelFetch(planes, ivec3(x >> 3, y >> 3, 2), 0).r;
	return cellPixel(cell, x & 7, y & 7);
}

Layer spritePixel(int x, int y) {
	int idx = 0;
	for (int hop = 0; hop < 128; ++hop) {
		uvec4 s = texelFetch(sprites, idx, 0);
		int w = int((s.y >> 10) & 3u) + 1;
		int h = int((s.y >> 8) & 3u) + 1;
		int sx = x - (int(s.w & 0x1FFu) - 128);
		int sy = y - (int(s.x & 0x3FFu) - 128);
		if (sx >= 0 && sy >= 0 && sx < w * 8 && sy < h * 8) {
			if ((s.z & 0x0800u) != 0u) {
				sx = w * 8 - 1 - sx;
			}
			if ((s.z & 0x1000u) != 0u) {
				sy = h * 8 - 1 - sy;
			}
			uint tile = ((s.z & 0x07FFu) + uint((sx >> 3) * h + (sy >> 3))) & 0x07FFu;
			uint i = patternPixel(tile, sx & 7, sy & 7);
			if (i != 0u) {
				return Layer(i, (s.z >> 13) & 3u, (s.z & 0x8000u) != 0u);
			}
		}
		idx = int(s.y & 0x7Fu);
		if (idx == 0) {
			break;
		}
	}
	return transparent;
}

Layer backdrop() {
	return Layer(background & 15u, background >> 4, false);
}

vec4 lookup(Layer p, uint base) {
	return vec4(texelFetch(colors, int(base + p.palette * 16u + p.index), 0).rgb, 1.0);
}

Layer pick(Layer s, Layer a, Layer b) {
	if (s.index != 0u && s.priority) return s;
	if (a.index != 0u && a.priority) return a;
	if (b.index != 0u && b.priority) return b;
	if (s.index != 0u) return s;
	if (a.index != 0u) return a;
	if (b.index != 0u) return b;
	return backdrop();
}

vec4 composeIntensity(Layer s, Layer a, Layer b) {
	if (s.index != 0u && s.priority) return lookup(s, NORMAL);
	if (a.index != 0u && a.priority) return lookup(a, NORMAL);
	if (b.index != 0u && b.priority) return lookup(b, NORMAL);
	if (s.index != 0u) {
		if (s.palette == 3u && s.index >= 14u) {
			Layer under = backdrop();
			if (a.index != 0u) {
				under = a;
			} else if (b.index != 0u) {
				under = b;
			}
			return lookup(under, s.index == 14u ? HIGHLIGHT : SHADOW);
		}
		return lookup(s, s.palette == 3u ? NORMAL : SHADOW);
	}
	if (a.index != 0u) return lookup(a, SHADOW);
	if (b.index != 0u) return lookup(b, SHADOW);
	return lookup(backdrop(), SHADOW);
}

void main() {
	int x = int(gl_FragCoord.x);
	int y = int(gl_FragCoord.y);

	Layer a = transparent;
	if (inAxis(x, window.x) || inAxis(y, window.y)) {
		Layer w = windowPixel(x, y);
		if (w.index != 0u) {
			fragColor = lookup(w, (mode != 0u && !w.priority) ? SHADOW : NORMAL);
			return;
		}
	} else {
		a = planePixel(0, x, y);
	}
	Layer b = planePixel(1, x, y);
	Layer s = spritePixel(x, y);

	if (mode != 0u) {
		fragColor = composeIntensity(s, a, b);
	} else {
		fragColor = lookup(pick(s, a, b), NORMAL);
	}
}
`
