// Package config provides YAML-based configuration for the bridge. The
// depth reference range and styling threshold were empirically tuned in
// the original system, so they are configuration here rather than
// constants.
package config

// Config is the full bridge configuration shared by both endpoints.
type Config struct {
	// Socket is the unix socket path both endpoints use.
	Socket string `yaml:"socket"`

	// TickRate is the producer's simulation rate in ticks per second.
	TickRate int `yaml:"tick_rate"`

	Frame  FrameConfig  `yaml:"frame"`
	Depth  DepthConfig  `yaml:"depth"`
	Limits LimitsConfig `yaml:"limits"`
	Pool   PoolConfig   `yaml:"pool"`
	Style  StyleConfig  `yaml:"style"`
}

// FrameConfig fixes the frame dimensions geometry is projected into.
type FrameConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DepthConfig bounds the perspective-scale reference range (16.16 fixed
// point) and the rank threshold splitting near from far styling.
type DepthConfig struct {
	ScaleMin      int `yaml:"scale_min"`
	ScaleMax      int `yaml:"scale_max"`
	NearThreshold int `yaml:"near_threshold"`
}

// LimitsConfig caps per-frame emission; overflow truncates, it never
// grows buffers.
type LimitsConfig struct {
	MaxWalls   int `yaml:"max_walls"`
	MaxSprites int `yaml:"max_sprites"`
}

// PoolConfig sizes the primitive pool per category.
type PoolConfig struct {
	Walls    int `yaml:"walls"`
	Sprites  int `yaml:"sprites"`
	Overlays int `yaml:"overlays"`
}

// StyleConfig sets the stroke widths for the two depth bands.
type StyleConfig struct {
	NearWidth int `yaml:"near_width"`
	FarWidth  int `yaml:"far_width"`
}

// Default returns the built-in configuration, matching the embedded YAML.
func Default() Config {
	return Config{
		Socket:   "/tmp/wiredoom.sock",
		TickRate: 35,
		Frame:    FrameConfig{Width: 320, Height: 200},
		Depth: DepthConfig{
			ScaleMin:      1 << 12,
			ScaleMax:      40 << 16,
			NearThreshold: 300,
		},
		Limits: LimitsConfig{MaxWalls: 128, MaxSprites: 32},
		Pool:   PoolConfig{Walls: 500, Sprites: 120, Overlays: 4},
		Style:  StyleConfig{NearWidth: 2, FarWidth: 1},
	}
}
