//go:build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddr is used when Launch is given an empty address.
const DefaultAddr = "localhost:12620"

const path = "/debug/statsview"

// Launch serves the runtime graphs on addr from a new goroutine and writes
// the viewer URL to output.
func Launch(output io.Writer, addr string) {
	if addr == "" {
		addr = DefaultAddr
	}
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithInterval(1000))
	go statsview.New().Start()

	fmt.Fprintf(output, "render stats at http://%s%s\n", addr, path)
}

// Available reports whether the binary was built with the statsview tag.
func Available() bool {
	return true
}
