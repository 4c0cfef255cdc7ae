package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/bridge.yaml
var defaultBridgeYAML []byte

// Load reads the bridge configuration.
// Search order: customPath -> ~/.wiredoom/config.yaml -> ./configs/bridge.yaml -> embedded default.
func Load(customPath string) (Config, error) {
	var cfg Config

	// Try custom path first; a named file that fails must be an error,
	// not a silent fallback.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return normalize(cfg), nil
	}

	// Try user config directory
	if userPath := userConfigPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return normalize(cfg), nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/bridge.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return normalize(cfg), nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBridgeYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return normalize(cfg), nil
}

// userConfigPath returns the path to the user config file, or empty if
// home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wiredoom", "config.yaml")
}

// normalize backfills zero-valued fields so partial override files only
// need to name what they change.
func normalize(cfg Config) Config {
	def := Default()
	if cfg.Socket == "" {
		cfg.Socket = def.Socket
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.Frame.Width <= 0 {
		cfg.Frame.Width = def.Frame.Width
	}
	if cfg.Frame.Height <= 0 {
		cfg.Frame.Height = def.Frame.Height
	}
	if cfg.Depth.ScaleMax <= cfg.Depth.ScaleMin {
		cfg.Depth = def.Depth
	}
	if cfg.Depth.NearThreshold <= 0 {
		cfg.Depth.NearThreshold = def.Depth.NearThreshold
	}
	if cfg.Limits.MaxWalls <= 0 {
		cfg.Limits.MaxWalls = def.Limits.MaxWalls
	}
	if cfg.Limits.MaxSprites <= 0 {
		cfg.Limits.MaxSprites = def.Limits.MaxSprites
	}
	if cfg.Pool.Walls <= 0 {
		cfg.Pool.Walls = def.Pool.Walls
	}
	if cfg.Pool.Sprites <= 0 {
		cfg.Pool.Sprites = def.Pool.Sprites
	}
	if cfg.Pool.Overlays <= 0 {
		cfg.Pool.Overlays = def.Pool.Overlays
	}
	if cfg.Style.NearWidth <= 0 {
		cfg.Style.NearWidth = def.Style.NearWidth
	}
	if cfg.Style.FarWidth <= 0 {
		cfg.Style.FarWidth = def.Style.FarWidth
	}
	return cfg
}
