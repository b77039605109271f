// Package statsview is an optional package built only when the statsview
// build tag is present.
//
// It runs a local HTTP server offering runtime statistics of the render
// loop, provided by github.com/go-echarts/statsview. After launch the graphs
// are viewable at:
//
//	localhost:12620/debug/statsview
package statsview
