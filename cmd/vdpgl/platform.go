//go:build !libretro && !ios

package main

import (
	"fmt"
	"runtime"

	emucore "github.com/user-none/eblitui/api"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/user-none/emvdp/player"
)

// platform owns the SDL window and the OpenGL 4.5 core context the
// renderer draws into.
type platform struct {
	window    *sdl.Window
	glContext sdl.GLContext

	shouldStop bool
	dump       bool
}

// newPlatform creates the window and makes a GL context current on the
// calling thread. The thread stays locked for the life of the program.
func newPlatform(title string, width, height int32) (*platform, error) {
	runtime.LockOSThread()

	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 5)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height,
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}

	plt := &platform{window: window}

	plt.glContext, err = window.GLCreateContext()
	if err != nil {
		plt.destroy()
		return nil, fmt.Errorf("failed to create OpenGL context: %v", err)
	}
	err = window.GLMakeCurrent(plt.glContext)
	if err != nil {
		plt.destroy()
		return nil, fmt.Errorf("failed to set current OpenGL context: %v", err)
	}

	_ = sdl.GLSetSwapInterval(1)

	return plt, nil
}

// destroy cleans up the resources.
func (plt *platform) destroy() {
	if plt.glContext != nil {
		sdl.GLDeleteContext(plt.glContext)
		plt.glContext = nil
	}
	if plt.window != nil {
		_ = plt.window.Destroy()
		plt.window = nil
	}
	sdl.Quit()
}

// processEvents handles all pending window events.
func (plt *platform) processEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			plt.shouldStop = true
		case *sdl.KeyboardEvent:
			if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
				continue
			}
			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				plt.shouldStop = true
			case sdl.SCANCODE_F5:
				plt.dump = true
			}
		}
	}
}

// takeDump reports and clears a pending snapshot request.
func (plt *platform) takeDump() bool {
	d := plt.dump
	plt.dump = false
	return d
}

// keyMap maps scancodes to player 1 and player 2 button bits.
var keyMap = [2]map[sdl.Scancode]int{
	{
		sdl.SCANCODE_UP:     int(emucore.ButtonUp),
		sdl.SCANCODE_W:      int(emucore.ButtonUp),
		sdl.SCANCODE_DOWN:   int(emucore.ButtonDown),
		sdl.SCANCODE_S:      int(emucore.ButtonDown),
		sdl.SCANCODE_LEFT:   int(emucore.ButtonLeft),
		sdl.SCANCODE_A:      int(emucore.ButtonLeft),
		sdl.SCANCODE_RIGHT:  int(emucore.ButtonRight),
		sdl.SCANCODE_D:      int(emucore.ButtonRight),
		sdl.SCANCODE_J:      player.ButtonA,
		sdl.SCANCODE_K:      player.ButtonB,
		sdl.SCANCODE_L:      player.ButtonC,
		sdl.SCANCODE_RETURN: player.ButtonStart,
	},
	{
		sdl.SCANCODE_KP_8: int(emucore.ButtonUp),
		sdl.SCANCODE_KP_2: int(emucore.ButtonDown),
		sdl.SCANCODE_KP_4: int(emucore.ButtonLeft),
		sdl.SCANCODE_KP_6: int(emucore.ButtonRight),
	},
}

// buttons returns the held buttons of one player from the keyboard state.
func buttons(keys []uint8, player int) uint32 {
	var bits uint32
	for code, bit := range keyMap[player] {
		if int(code) < len(keys) && keys[code] != 0 {
			bits |= 1 << bit
		}
	}
	return bits
}

// drawableSize returns the size of the default framebuffer in pixels.
func (plt *platform) drawableSize() (int, int) {
	w, h := plt.window.GLGetDrawableSize()
	return int(w), int(h)
}

// postRender performs a buffer swap.
func (plt *platform) postRender() {
	plt.window.GLSwap()
}

// sdlKeyboardState returns the current key state indexed by scancode.
func sdlKeyboardState() []uint8 {
	return sdl.GetKeyboardState()
}
