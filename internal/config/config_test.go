package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0bVdnt/frameloop/internal/video"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frameloop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "fingers.mov", cfg.Video.Path)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.False(t, cfg.Fullscreen())
	assert.Equal(t, 60.0, cfg.FrameRate)
	assert.True(t, cfg.VerticalSync)
	assert.NoError(t, cfg.Validate())

	mode, err := cfg.DecodeMode()
	require.NoError(t, err)
	assert.Equal(t, video.DecodeTextureOnly, mode)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
video:
  path: clip.mp4
  mode: pixels+texture
window:
  mode: fullscreen
frame_rate: 30
vertical_sync: false
hud: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "clip.mp4", cfg.Video.Path)
	assert.True(t, cfg.Fullscreen())
	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.False(t, cfg.VerticalSync)
	assert.True(t, cfg.HUD)
	// untouched keys keep their defaults
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "frame_rate: 30\n")
	t.Setenv("FRAMELOOP_FRAME_RATE", "24")
	t.Setenv("FRAMELOOP_VIDEO_PATH", "env.mov")
	t.Setenv("FRAMELOOP_LOG_FILE", "/tmp/frameloop.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 24.0, cfg.FrameRate)
	assert.Equal(t, "env.mov", cfg.Video.Path)
	assert.Equal(t, "/tmp/frameloop.log", cfg.Log.File)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	t.Setenv("FRAMELOOP_VIDEO_MODE", "bogus")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bogus", cfg.Video.Mode)
	assert.Error(t, cfg.Validate())

	cfg.Video.Mode = "texture"
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "video: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty path", func(c *Config) { c.Video.Path = "" }},
		{"bad mode", func(c *Config) { c.Video.Mode = "vhs" }},
		{"bad window mode", func(c *Config) { c.Window.Mode = "borderless" }},
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative rate", func(c *Config) { c.FrameRate = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Defaults()
	cfg.Window.Mode = WindowModeFullscreen
	cfg.Window.Width = 0
	assert.NoError(t, cfg.Validate(), "fullscreen ignores the window size")
}
