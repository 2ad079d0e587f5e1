package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test hull defaults
	if cfg.Hull.Index != 1 {
		t.Errorf("expected hull index 1, got %d", cfg.Hull.Index)
	}
	if cfg.Hull.Padding != 24 {
		t.Errorf("expected padding 24, got %f", cfg.Hull.Padding)
	}
	if cfg.Hull.Strict {
		t.Error("expected strict to be false by default")
	}

	// Test viewer defaults
	if cfg.Viewer.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Viewer.Height)
	}
	if !cfg.Viewer.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
hull:
  index: 2
  model: 3
  padding: 32
  strict: true
  validate: true
  workers: 4

export:
  obj_path: "out/hull.obj"

viewer:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fov: 90

logging:
  level: "debug"
  log_file: "hullmesh.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Hull.Index != 2 || cfg.Hull.Model != 3 {
		t.Errorf("expected hull 2 model 3, got hull %d model %d", cfg.Hull.Index, cfg.Hull.Model)
	}
	if cfg.Hull.Padding != 32 {
		t.Errorf("expected padding 32, got %f", cfg.Hull.Padding)
	}
	if !cfg.Hull.Strict || !cfg.Hull.Validate {
		t.Error("expected strict and validate to be true")
	}
	if cfg.Hull.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Hull.Workers)
	}
	if cfg.Export.OBJPath != "out/hull.obj" {
		t.Errorf("expected obj path out/hull.obj, got %s", cfg.Export.OBJPath)
	}
	if cfg.Viewer.Width != 1920 || cfg.Viewer.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if cfg.Viewer.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Viewer.FOV != 90 {
		t.Errorf("expected fov 90, got %f", cfg.Viewer.FOV)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "hullmesh.log" {
		t.Errorf("expected log file 'hullmesh.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "hull:\n  index: not a number\n  invalid syntax here\n"},
		{"hull out of range", "hull:\n  index: 3\n"},
		{"negative padding", "hull:\n  padding: -1\n"},
		{"zero width", "viewer:\n  width: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("hull:\n  index: 0\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Hull.Validate {
					t.Error("expected validate to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "hull and model flags",
			setup: func() {
				*flagHull = 0
				*flagModel = 5
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Hull.Index != 0 || cfg.Hull.Model != 5 {
					t.Errorf("expected hull 0 model 5, got %d/%d", cfg.Hull.Index, cfg.Hull.Model)
				}
			},
			teardown: func() {
				*flagHull = -1
				*flagModel = -1
			},
		},
		{
			name:  "unset hull flag keeps config",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Hull.Index != 1 {
					t.Errorf("expected hull 1, got %d", cfg.Hull.Index)
				}
			},
			teardown: func() {},
		},
		{
			name: "strict and obj flags",
			setup: func() {
				*flagStrict = true
				*flagOBJ = "hull.obj"
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Hull.Strict {
					t.Error("expected strict to be true")
				}
				if cfg.Export.OBJPath != "hull.obj" {
					t.Errorf("expected obj path hull.obj, got %s", cfg.Export.OBJPath)
				}
			},
			teardown: func() {
				*flagStrict = false
				*flagOBJ = ""
			},
		},
		{
			name: "window flags",
			setup: func() {
				*flagFullscreen = true
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Viewer.Fullscreen {
					t.Error("expected fullscreen to be true")
				}
				if cfg.Viewer.Width != 2560 || cfg.Viewer.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
				}
			},
			teardown: func() {
				*flagFullscreen = false
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
hull:
  index: 2
  model: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagHull = 0
	defer func() {
		*flagConfig = ""
		*flagHull = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Hull should be from flag (0), not file (2)
	if cfg.Hull.Index != 0 {
		t.Errorf("expected hull 0 from flag, got %d", cfg.Hull.Index)
	}
	// Model should be from file (4) since no flag override
	if cfg.Hull.Model != 4 {
		t.Errorf("expected model 4 from file, got %d", cfg.Hull.Model)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Hull.Index = 2
	cfg.Export.OBJPath = "world.obj"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Hull.Index != 2 || loaded.Export.OBJPath != "world.obj" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
