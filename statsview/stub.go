//go:build !statsview

package statsview

import "io"

// DefaultAddr is used when Launch is given an empty address.
const DefaultAddr = "localhost:12620"

// Launch does nothing without the statsview build tag.
func Launch(_ io.Writer, _ string) {
}

// Available returns false without the statsview build tag.
func Available() bool {
	return false
}
