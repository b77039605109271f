package sshview

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	esc   = "\x1b"
	csi   = esc + "["
	reset = csi + "0m"

	// upperHalf draws the top pixel in the foreground color and the bottom
	// pixel in the background color.
	upperHalf = '▀'
)

// moveTo positions the cursor at row, col (1-based).
func moveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", csi, row, col)
}

func clearScreen() string      { return csi + "2J" }
func clearLine() string        { return csi + "2K" }
func hideCursor() string       { return csi + "?25l" }
func showCursor() string       { return csi + "?25h" }
func enableAltScreen() string  { return csi + "?1049h" }
func disableAltScreen() string { return csi + "?1049l" }

type rgb struct{ r, g, b uint8 }

// writeHalfBlock writes one cell showing two vertically stacked pixels.
func writeHalfBlock(sb *strings.Builder, top, bottom rgb) {
	sb.WriteString("\x1b[38;2;")
	writeRGB(sb, top)
	sb.WriteString(";48;2;")
	writeRGB(sb, bottom)
	sb.WriteByte('m')
	sb.WriteRune(upperHalf)
}

func writeRGB(sb *strings.Builder, c rgb) {
	sb.WriteString(strconv.Itoa(int(c.r)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.g)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.b)))
}
