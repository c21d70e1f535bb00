package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/0bVdnt/frameloop/internal/video"
)

const EnvPrefix = "FRAMELOOP_"

// Startup parameters, fixed once the loop runs
type Config struct {
	Video        VideoConfig  `yaml:"video" envPrefix:"VIDEO_"`
	Window       WindowConfig `yaml:"window" envPrefix:"WINDOW_"`
	FrameRate    float64      `yaml:"frame_rate" env:"FRAME_RATE"`
	VerticalSync bool         `yaml:"vertical_sync" env:"VERTICAL_SYNC"`
	HUD          bool         `yaml:"hud" env:"HUD"`
	Log          LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

// Movie file and decode mode
type VideoConfig struct {
	Path string `yaml:"path" env:"PATH"`
	Mode string `yaml:"mode" env:"MODE"`
}

// Drawable area in pixels; mode is "window" or "fullscreen"
type WindowConfig struct {
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
	Mode   string `yaml:"mode" env:"MODE"`
}

// Debug log file, disabled when empty
type LogConfig struct {
	File  string `yaml:"file" env:"FILE"`
	Level string `yaml:"level" env:"LEVEL"`
}

const (
	WindowModeWindow     = "window"
	WindowModeFullscreen = "fullscreen"
)

// Returns a 1280x720 window at 60 fps with vertical sync, playing
// fingers.mov as a texture
func Defaults() Config {
	return Config{
		Video: VideoConfig{
			Path: "fingers.mov",
			Mode: video.DecodeTextureOnly.String(),
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Mode:   WindowModeWindow,
		},
		FrameRate:    60,
		VerticalSync: true,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Layers the YAML file at path (skipped when empty) and FRAMELOOP_*
// variables over the defaults. Not validated: flags still go on top.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Returns the parsed video mode
func (c Config) DecodeMode() (video.DecodeMode, error) {
	return video.ParseDecodeMode(c.Video.Mode)
}

func (c Config) Fullscreen() bool {
	return c.Window.Mode == WindowModeFullscreen
}

// Returns every unusable value, joined
func (c Config) Validate() error {
	var errs []error

	if c.Video.Path == "" {
		errs = append(errs, errors.New("video.path is empty"))
	}
	if _, err := c.DecodeMode(); err != nil {
		errs = append(errs, fmt.Errorf("video.mode: %w", err))
	}
	if c.Window.Mode != WindowModeWindow && c.Window.Mode != WindowModeFullscreen {
		errs = append(errs, fmt.Errorf("window.mode: unknown mode %q", c.Window.Mode))
	}
	if c.Window.Mode == WindowModeWindow && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("frame_rate %v must not be negative", c.FrameRate))
	}

	return errors.Join(errs...)
}
