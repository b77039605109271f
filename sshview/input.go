package sshview

import (
	"unicode/utf8"

	emucore "github.com/user-none/eblitui/api"

	"github.com/user-none/emvdp/player"
)

// Press is one key press mapped to a controller button.
type Press struct {
	Player int
	Button int
}

var (
	pressUp     = Press{0, int(emucore.ButtonUp)}
	pressDown   = Press{0, int(emucore.ButtonDown)}
	pressLeft   = Press{0, int(emucore.ButtonLeft)}
	pressRight  = Press{0, int(emucore.ButtonRight)}
	pressUpB    = Press{1, int(emucore.ButtonUp)}
	pressDownB  = Press{1, int(emucore.ButtonDown)}
	pressLeftB  = Press{1, int(emucore.ButtonLeft)}
	pressRightB = Press{1, int(emucore.ButtonRight)}
	pressMode   = Press{0, player.ButtonA}
	pressWave   = Press{0, player.ButtonB}
	pressWindow = Press{0, player.ButtonStart}
)

// isDirection reports whether a press is a d-pad button.
func (p Press) isDirection() bool {
	return p.Button < player.ButtonA
}

// parseInput converts raw terminal bytes into presses.
// Arrow keys and WASD steer plane A, IJKL steer plane B, M toggles the
// intensity mode, V the line wave and N the window. Q and Ctrl-C quit.
func parseInput(data []byte) (presses []Press, quit bool) {
	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				presses = append(presses, pressUp)
			case 'B':
				presses = append(presses, pressDown)
			case 'C':
				presses = append(presses, pressRight)
			case 'D':
				presses = append(presses, pressLeft)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			presses = append(presses, pressUp)
		case 's', 'S':
			presses = append(presses, pressDown)
		case 'a', 'A':
			presses = append(presses, pressLeft)
		case 'd', 'D':
			presses = append(presses, pressRight)
		case 'i', 'I':
			presses = append(presses, pressUpB)
		case 'k', 'K':
			presses = append(presses, pressDownB)
		case 'j', 'J':
			presses = append(presses, pressLeftB)
		case 'l', 'L':
			presses = append(presses, pressRightB)
		case 'm', 'M':
			presses = append(presses, pressMode)
		case 'v', 'V':
			presses = append(presses, pressWave)
		case 'n', 'N':
			presses = append(presses, pressWindow)
		case 'q', 'Q', 3: // 3 is Ctrl-C
			return presses, true
		}
		i += size
	}
	return presses, false
}
