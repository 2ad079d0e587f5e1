// Package config handles hull tool configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Hull    HullConfig    `yaml:"hull"`
	Export  ExportConfig  `yaml:"export"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// HullConfig selects and tunes the hull triangulation.
type HullConfig struct {
	Index    int     `yaml:"index"`    // Collision hull: 0 point, 1 player, 2 large
	Model    int     `yaml:"model"`    // BSP model, 0 is the world
	Padding  float32 `yaml:"padding"`  // Space around the bounds before portalizing
	Strict   bool    `yaml:"strict"`   // Fail on clipped-away node portals
	Validate bool    `yaml:"validate"` // Check portal lists after partitioning
	Workers  int     `yaml:"workers"`  // Concurrent models, 0 = GOMAXPROCS
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	OBJPath string `yaml:"obj_path"`
}

// ViewerConfig holds display settings for the hull viewer.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Hull: HullConfig{
			Index:    1,
			Model:    0,
			Padding:  24,
			Strict:   false,
			Validate: false,
			Workers:  0,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        70,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
