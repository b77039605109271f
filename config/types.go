package config

// CurrentVersion is the config file version written by Save.
const CurrentVersion = 2

// Backends selectable by the demo command.
const (
	BackendKage     = "kage"
	BackendSoftware = "software"
)

// Config represents the demo configuration stored in config.json
type Config struct {
	Version int          `json:"version"`
	Backend string       `json:"backend"` // "kage" or "software"
	Video   VideoConfig  `json:"video"`
	Window  WindowConfig `json:"window"`
	Scene   SceneConfig  `json:"scene"`
}

// VideoConfig contains presentation settings
type VideoConfig struct {
	Filter  string   `json:"filter"`            // "nearest" or "bilinear"
	Shaders []string `json:"shaders,omitempty"` // post-process chain, Kage backend only
	Bands   int      `json:"bands,omitempty"`   // software render bands, 0 = one per CPU
}

// WindowConfig contains window position and size
type WindowConfig struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	X      *int `json:"x,omitempty"` // nil = OS decides position
	Y      *int `json:"y,omitempty"`
}

// SceneConfig contains what to play at startup
type SceneConfig struct {
	LastPath string `json:"lastPath,omitempty"` // empty = built-in demo
	Region   string `json:"region"`             // "ntsc" or "pal"
	Wave     bool   `json:"wave"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendKage,
		Video: VideoConfig{
			Filter: "nearest",
		},
		Window: WindowConfig{
			Width:  960,
			Height: 672,
		},
		Scene: SceneConfig{
			Region: "ntsc",
		},
	}
}
