package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameloop.log")

	log, err := New(path, "debug")
	require.NoError(t, err)
	assert.True(t, log.IsEnabled())

	log.Log("loaded %d frames", 120)
	log.Named("player").Debug("frame %d", 7)
	log.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded 120 frames")
	assert.Contains(t, string(data), "player")
	assert.Contains(t, string(data), "frame 7")
}

func TestLevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameloop.log")

	log, err := New(path, "warn")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Warn("visible")
	log.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestEmptyPathIsNoop(t *testing.T) {
	log, err := New("", "info")
	require.NoError(t, err)
	assert.False(t, log.IsEnabled())

	log.Log("nothing")
	log.Close()
}

func TestBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}
