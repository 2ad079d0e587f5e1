package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagHull       = flag.Int("hull", -1, "Collision hull to triangulate (0-2)")
	flagModel      = flag.Int("model", -1, "BSP model index")
	flagStrict     = flag.Bool("strict", false, "Fail when a node portal is clipped away")
	flagOBJ        = flag.String("obj", "", "Also export the mesh as OBJ")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Hull.Validate = true
	}
	if *flagHull >= 0 {
		cfg.Hull.Index = *flagHull
	}
	if *flagModel >= 0 {
		cfg.Hull.Model = *flagModel
	}
	if *flagStrict {
		cfg.Hull.Strict = true
	}
	if *flagOBJ != "" {
		cfg.Export.OBJPath = *flagOBJ
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}
