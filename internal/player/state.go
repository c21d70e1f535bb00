package player

import "github.com/0bVdnt/frameloop/internal/video"

// Lifecycle of a playback handle. There is no playing/paused pair: the
// caller picks the frame on every tick.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load failed"
	default:
		return "unknown"
	}
}

// Size the texture is materialized at: the native frame size, shrunk to
// fit the surface when it is bigger than the surface.
func TextureDimensions(surfaceW, surfaceH int, meta video.Metadata) (int, int) {
	if surfaceW <= 0 || surfaceH <= 0 {
		return video.FitDimensions(meta.Width, meta.Height, meta.Width, meta.Height)
	}
	return video.FitDimensions(meta.Width, meta.Height, surfaceW, surfaceH)
}

// Clamps a frame index into [0, total)
func clampFrame(index, total int) int {
	if total <= 0 || index < 0 {
		return 0
	}
	if index >= total {
		return total - 1
	}
	return index
}
