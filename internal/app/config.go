// Package app wires the emulator core to a presentation backend.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"nescore/internal/graphics"
	"nescore/internal/ppu"
)

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"` // NES resolution multiplier
}

// VideoConfig contains video rendering configuration
type VideoConfig struct {
	VSync      bool    `json:"vsync"`
	Filter     string  `json:"filter"`  // "nearest", "linear"
	Backend    string  `json:"backend"` // "ebitengine", "headless", "terminal"
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	// FrameRate paces the simulation; 0 runs unthrottled
	FrameRate float64 `json:"frame_rate"`

	// PaletteFile optionally replaces the built-in palette with a 192 byte
	// .pal file
	PaletteFile string `json:"palette_file"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	ShowFPS       bool   `json:"show_fps"`
	EnableLogging bool   `json:"enable_logging"`
	TraceFile     string `json:"trace_file"`
	StatsView     bool   `json:"stats_view"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	Screenshots string `json:"screenshots"`
}

var (
	errInvalidWindow  = errors.New("invalid window dimensions")
	errInvalidBackend = errors.New("unknown video backend")
	errInvalidFilter  = errors.New("unknown video filter")
)

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  ppu.Width * 3,
			Height: ppu.Height * 3,
			Scale:  2,
		},
		Video: VideoConfig{
			VSync:      true,
			Filter:     "nearest",
			Backend:    string(graphics.BackendEbitengine),
			Brightness: 1.0,
			Contrast:   1.0,
			Saturation: 1.0,
		},
		Emulation: EmulationConfig{
			FrameRate: 60.0988,
		},
		Paths: PathsConfig{
			Screenshots: "./screenshots",
		},
	}
}

// LoadConfig reads a JSON configuration on top of the defaults. A missing
// file is created with the defaults.
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()
	if err := c.LoadFromFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromFile loads configuration from a JSON file
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c.SaveToFile(path)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// Validate rejects settings that cannot work and resets out-of-range
// tuning values to their defaults.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", errInvalidWindow, c.Window.Width, c.Window.Height)
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}

	switch graphics.BackendType(c.Video.Backend) {
	case graphics.BackendEbitengine, graphics.BackendHeadless, graphics.BackendTerminal:
	case "":
		c.Video.Backend = string(graphics.BackendEbitengine)
	default:
		return fmt.Errorf("%w %q", errInvalidBackend, c.Video.Backend)
	}

	switch c.Video.Filter {
	case "nearest", "linear":
	case "":
		c.Video.Filter = "nearest"
	default:
		return fmt.Errorf("%w %q", errInvalidFilter, c.Video.Filter)
	}

	if c.Video.Brightness < 0.1 || c.Video.Brightness > 3.0 {
		c.Video.Brightness = 1.0
	}
	if c.Video.Contrast < 0.1 || c.Video.Contrast > 3.0 {
		c.Video.Contrast = 1.0
	}
	if c.Video.Saturation < 0.0 || c.Video.Saturation > 3.0 {
		c.Video.Saturation = 1.0
	}

	if c.Emulation.FrameRate < 0 {
		c.Emulation.FrameRate = 0
	}
	return nil
}

// GetWindowResolution returns the window resolution based on scale
func (c *Config) GetWindowResolution() (int, int) {
	return ppu.Width * c.Window.Scale, ppu.Height * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool { return c.loaded }

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string { return c.configPath }

// Palette loads the configured palette, or the built-in one when none is set
func (c *Config) Palette() (*ppu.Palette, error) {
	if c.Emulation.PaletteFile == "" {
		return ppu.DefaultPalette(), nil
	}
	return ppu.LoadPalette(c.Emulation.PaletteFile)
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/nescore.json"
}
