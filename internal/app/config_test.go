package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if c.Video.Backend != "ebitengine" {
		t.Errorf("Expected ebitengine backend, got %s", c.Video.Backend)
	}
	if w, h := c.GetWindowResolution(); w != 512 || h != 480 {
		t.Errorf("Expected 512x480, got %dx%d", w, h)
	}
}

func TestLoadConfigCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "nescore.json")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected default config to be written: %v", err)
	}
	if c.IsLoaded() {
		t.Error("Expected freshly created config not to count as loaded")
	}
	if c.GetConfigPath() != path {
		t.Errorf("Expected path %s, got %s", path, c.GetConfigPath())
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nescore.json")
	data := `{
		"video": {"backend": "headless", "brightness": 9},
		"emulation": {"frame_rate": 50, "palette_file": "custom.pal"},
		"debug": {"show_fps": true}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !c.IsLoaded() {
		t.Error("Expected config to be loaded")
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"backend", c.Video.Backend, "headless"},
		{"brightness reset", c.Video.Brightness, 1.0},
		{"frame rate", c.Emulation.FrameRate, 50.0},
		{"palette", c.Emulation.PaletteFile, "custom.pal"},
		{"show fps", c.Debug.ShowFPS, true},
		{"window default kept", c.Window.Width, 768},
		{"filter default kept", c.Video.Filter, "nearest"},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: Expected %v, got %v", tt.name, tt.expected, tt.got)
		}
	}
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, errInvalidWindow},
		{"unknown backend", func(c *Config) { c.Video.Backend = "sdl2" }, errInvalidBackend},
		{"unknown filter", func(c *Config) { c.Video.Filter = "cubic" }, errInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			tt.modify(c)
			if err := c.Validate(); !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nescore.json")
	c := NewConfig()
	if err := c.Save(); err == nil {
		t.Error("Expected Save without a path to fail")
	}

	c.Emulation.PaletteFile = "x.pal"
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Emulation.PaletteFile != "x.pal" {
		t.Errorf("Expected palette file x.pal, got %q", loaded.Emulation.PaletteFile)
	}
}

func TestConfigPalette(t *testing.T) {
	c := NewConfig()
	p, err := c.Palette()
	if err != nil || p == nil {
		t.Fatalf("Expected built-in palette, got %v", err)
	}

	raw := make([]byte, 192)
	raw[0], raw[1], raw[2] = 0x10, 0x20, 0x30
	path := filepath.Join(t.TempDir(), "test.pal")
	os.WriteFile(path, raw, 0644)

	c.Emulation.PaletteFile = path
	p, err = c.Palette()
	if err != nil {
		t.Fatalf("Palette failed: %v", err)
	}
	if p.ARGB(0) != 0xFF102030 {
		t.Errorf("Expected 0xFF102030, got 0x%08X", p.ARGB(0))
	}

	c.Emulation.PaletteFile = filepath.Join(t.TempDir(), "missing.pal")
	if _, err := c.Palette(); err == nil {
		t.Error("Expected error for missing palette file")
	}
}
