package video

import (
	"image"
	"sync"
	"time"
)

// Represents a decoded video frame
type Frame struct {
	Image     *image.RGBA
	Index     int
	Timestamp time.Duration
}

// Holds the most recently materialized frame of a player. Readers such
// as the HUD query it without holding the player lock.
type FrameBuffer struct {
	mu         sync.RWMutex
	frame      *Frame
	frameCount uint64
	lastError  error
}

// Creates a new frame buffer
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Drops the frame, the counter and the error. Called on every load.
func (fb *FrameBuffer) Reset() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.frame = nil
	fb.frameCount = 0
	fb.lastError = nil
}

// Saves a new frame and clears the error
func (fb *FrameBuffer) Store(f *Frame) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.frame = f
	fb.frameCount++
	fb.lastError = nil
}

// Returns the current frame
func (fb *FrameBuffer) Load() *Frame {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.frame
}

// Returns how many frames have been materialized since the last reset
func (fb *FrameBuffer) FrameCount() uint64 {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.frameCount
}

// Sets an error state
func (fb *FrameBuffer) SetError(err error) {
	fb.mu.Lock()
	fb.lastError = err
	fb.mu.Unlock()
}

// Returns last error
func (fb *FrameBuffer) GetError() error {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.lastError
}

// Returns the current frame's index, or -1 when empty
func (fb *FrameBuffer) Index() int {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	if fb.frame != nil {
		return fb.frame.Index
	}
	return -1
}
