package sshview

import (
	"image"
	"sync"

	"github.com/user-none/emvdp/player"
	"github.com/user-none/emvdp/vdp"
)

// holdSteps is how many emulated frames a d-pad key press is held for.
// Terminals report presses, not releases.
const holdSteps = 8

// session drives one player for one terminal.
type session struct {
	emu   *player.Emulator
	steps int // emulated frames per rendered frame

	mu   sync.Mutex
	hold [2][8]int
}

func newSession(e *player.Emulator, fps int) *session {
	steps := e.GetTiming().FPS / max(fps, 1)
	return &session{emu: e, steps: max(steps, 1)}
}

// press holds a button for the following frames. Toggles are held for a
// single frame so the player sees one edge per key press.
func (s *session) press(p Press) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.isDirection() {
		s.hold[p.Player][p.Button] = holdSteps
	} else {
		s.hold[p.Player][p.Button] = 1
	}
}

func (s *session) input() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.hold {
		var buttons uint32
		for bit, n := range s.hold[p] {
			if n > 0 {
				buttons |= 1 << bit
				s.hold[p][bit]--
			}
		}
		s.emu.SetInput(p, buttons)
	}
}

// tick emulates one rendered frame and returns the framebuffer.
func (s *session) tick() *image.RGBA {
	for i := 0; i < s.steps-1; i++ {
		s.input()
		s.emu.Step()
	}
	s.input()
	s.emu.RunFrame()
	return &image.RGBA{
		Pix:    s.emu.GetFramebuffer(),
		Stride: s.emu.GetFramebufferStride(),
		Rect:   image.Rect(0, 0, vdp.ScreenWidth, vdp.ScreenHeight),
	}
}

func (s *session) status() string {
	o := s.emu.Overlay()
	wave := "off"
	if o.Wave() {
		wave = "on"
	}
	return "mode " + o.Mode().String() + "  wave " + wave +
		"  [arrows] A  [ijkl] B  [m] mode  [v] wave  [n] window  [q] quit"
}
