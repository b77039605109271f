package sshview

import (
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/user-none/emvdp/vdp"
)

// Screen converts frames to half-block ANSI art for a terminal of a given
// size. It remembers the lines it sent so unchanged lines are skipped.
// The last terminal row is left for the status line.
type Screen struct {
	cols, rows int
	scaled     *image.RGBA
	lines      []string
	sb         strings.Builder
}

// NewScreen returns a screen for a cols x rows terminal.
func NewScreen(cols, rows int) *Screen {
	s := &Screen{}
	s.Resize(cols, rows)
	return s
}

// Resize changes the terminal size. The next frame is sent in full.
func (s *Screen) Resize(cols, rows int) {
	s.cols, s.rows = cols, rows
	w, h := fit(cols, (rows-1)*2)
	s.scaled = nil
	if w > 0 && h > 0 {
		s.scaled = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	s.lines = make([]string, h/2)
}

// fit returns the largest picture with the framebuffer aspect ratio that
// fits in width x height pixels. The height is even.
func fit(width, height int) (w, h int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	w = width
	h = w * vdp.ScreenHeight / vdp.ScreenWidth
	if h > height {
		h = height
		w = h * vdp.ScreenWidth / vdp.ScreenHeight
	}
	h &^= 1
	if w == 0 || h == 0 {
		return 0, 0
	}
	return w, h
}

// Frame returns the escape sequences that update the terminal to show src.
// The result is empty when nothing changed or the terminal is too small.
func (s *Screen) Frame(src image.Image) string {
	if s.scaled == nil {
		return ""
	}
	b := s.scaled.Bounds()
	draw.NearestNeighbor.Scale(s.scaled, b, src, src.Bounds(), draw.Src, nil)

	left := (s.cols-b.Dx())/2 + 1
	top := (s.rows-1-len(s.lines))/2 + 1

	var out strings.Builder
	for row := range s.lines {
		line := s.line(row)
		if line == s.lines[row] {
			continue
		}
		s.lines[row] = line
		out.WriteString(moveTo(top+row, left))
		out.WriteString(line)
	}
	return out.String()
}

func (s *Screen) pixel(x, y int) rgb {
	o := s.scaled.PixOffset(x, y)
	p := s.scaled.Pix[o : o+3 : o+3]
	return rgb{p[0], p[1], p[2]}
}

func (s *Screen) line(row int) string {
	s.sb.Reset()
	for x := 0; x < s.scaled.Bounds().Dx(); x++ {
		writeHalfBlock(&s.sb, s.pixel(x, row*2), s.pixel(x, row*2+1))
	}
	s.sb.WriteString(reset)
	return s.sb.String()
}

// Status returns the escape sequences that replace the status line.
func (s *Screen) Status(text string) string {
	if len(text) > s.cols {
		text = text[:max(s.cols, 0)]
	}
	return moveTo(s.rows, 1) + clearLine() + text
}
