// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/shade/internal/dimmer"
)

// ConfigFileName is the daemon config file inside ConfigDir.
const ConfigFileName = "shade.toml"

// Config is the configuration for shaded.
// Loaded from ~/.config/shade/shade.toml
type Config struct {
	Brightness BrightnessConfig `toml:"brightness"`
	Hotkeys    HotkeyConfig     `toml:"hotkeys"`
	Slider     SliderConfig     `toml:"slider"`
	Overlay    OverlayConfig    `toml:"overlay"`
	Tray       TrayConfig       `toml:"tray"`
	Theme      ThemeConfig      `toml:"theme"`
	Notify     NotifyConfig     `toml:"notify"`
}

// BrightnessConfig contains the starting level and hotkey increment.
type BrightnessConfig struct {
	Initial  float64 `toml:"initial"`  // Percent, 10-100
	Step     float64 `toml:"step"`     // Percent per hotkey press
	Remember bool    `toml:"remember"` // Start from the last brightness instead of Initial
}

// HotkeyConfig contains the global key chords.
type HotkeyConfig struct {
	Enabled  bool   `toml:"enabled"`
	Decrease string `toml:"decrease"` // e.g. "alt+q"
	Increase string `toml:"increase"` // e.g. "alt+w"
}

// SliderConfig contains the brightness popup settings.
type SliderConfig struct {
	HideDelay    Duration `toml:"hide_delay"`    // Idle time before the popup hides
	Width        int      `toml:"width"`         // Popup width in pixels
	Height       int      `toml:"height"`        // Popup height in pixels
	BottomMargin int      `toml:"bottom_margin"` // Pixels above the bottom screen edge
	Opacity      float64  `toml:"opacity"`       // 0.1-1.0
}

// OverlayConfig contains overlay window settings.
type OverlayConfig struct {
	Monitor int `toml:"monitor"` // 0 = compositor default, 1+ = specific monitor
}

// TrayConfig contains tray icon settings.
type TrayConfig struct {
	Enabled bool `toml:"enabled"`
}

// NotifyConfig controls desktop notifications about shaded's own events,
// such as a rejected config reload.
type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without .css extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Brightness: BrightnessConfig{
			Initial: dimmer.DefaultBrightness,
			Step:    dimmer.DefaultStep,
		},
		Hotkeys: HotkeyConfig{
			Enabled:  true,
			Decrease: "alt+q",
			Increase: "alt+w",
		},
		Slider: SliderConfig{
			HideDelay:    Duration(dimmer.DefaultHideDelay),
			Width:        300,
			Height:       60,
			BottomMargin: 100,
			Opacity:      0.8,
		},
		Overlay: OverlayConfig{
			Monitor: 0,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the shade config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "shade"), nil
}

// ConfigPath returns the path to the daemon config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load loads the configuration from path, or from ConfigPath when path is empty.
// If the file doesn't exist, returns the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or to ConfigPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	b := c.Brightness
	if b.Initial < dimmer.MinBrightness || b.Initial > dimmer.MaxBrightness {
		return fmt.Errorf("brightness.initial must be between %g and %g, got %g",
			dimmer.MinBrightness, dimmer.MaxBrightness, b.Initial)
	}
	if b.Step <= 0 || b.Step > 50 {
		return fmt.Errorf("brightness.step must be between 0 and 50, got %g", b.Step)
	}

	if c.Hotkeys.Enabled {
		if strings.TrimSpace(c.Hotkeys.Decrease) == "" || strings.TrimSpace(c.Hotkeys.Increase) == "" {
			return errors.New("hotkeys.decrease and hotkeys.increase must be set when hotkeys are enabled")
		}
		dec, err := ParseChord(c.Hotkeys.Decrease)
		if err != nil {
			return fmt.Errorf("hotkeys.decrease: %w", err)
		}
		inc, err := ParseChord(c.Hotkeys.Increase)
		if err != nil {
			return fmt.Errorf("hotkeys.increase: %w", err)
		}
		if dec.String() == inc.String() {
			return fmt.Errorf("hotkeys.decrease and hotkeys.increase must differ, both are %q", dec.String())
		}
	}

	s := c.Slider
	if s.HideDelay.Duration() < 100*time.Millisecond || s.HideDelay.Duration() > time.Minute {
		return fmt.Errorf("slider.hide_delay must be between 100ms and 1m, got %s", s.HideDelay.Duration())
	}
	if s.Width < 100 || s.Width > 2000 {
		return fmt.Errorf("slider.width must be between 100 and 2000, got %d", s.Width)
	}
	if s.Height < 30 || s.Height > 500 {
		return fmt.Errorf("slider.height must be between 30 and 500, got %d", s.Height)
	}
	if s.BottomMargin < 0 {
		return fmt.Errorf("slider.bottom_margin must not be negative, got %d", s.BottomMargin)
	}
	if s.Opacity < 0.1 || s.Opacity > 1.0 {
		return fmt.Errorf("slider.opacity must be between 0.1 and 1.0, got %g", s.Opacity)
	}

	if c.Overlay.Monitor < 0 {
		return fmt.Errorf("overlay.monitor must not be negative, got %d", c.Overlay.Monitor)
	}

	validScheme := false
	for _, cs := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(cs) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	return nil
}
