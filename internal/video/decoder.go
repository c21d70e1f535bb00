package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"sync"
	"time"
)

type LogFunc func(format string, args ...any)

var (
	ErrNoVideoStream    = errors.New("no video stream found")
	ErrDecodeFailed     = errors.New("decode failed")
	ErrFFmpegNotFound   = errors.New("ffmpeg not found")
	ErrFrameUnavailable = errors.New("frame unavailable")
	ErrStreamStopped    = errors.New("stream stopped")
)

// Reading through this many frames is cheaper than restarting ffmpeg
const maxSkipAhead = 12

// Frame addressable decoder for a single file
type Decoder struct {
	path     string
	metadata Metadata
	logFn    LogFunc

	mu     sync.Mutex
	stream *Stream
}

// Opens a file and reads its metadata
func Open(path string) (*Decoder, error) {
	return OpenWithLogger(path, nil)
}

func OpenWithLogger(path string, logFn LogFunc) (*Decoder, error) {
	if logFn == nil {
		logFn = func(format string, args ...any) {}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	logFn("File: %s (%d bytes)", path, info.Size())

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, ErrFFmpegNotFound
	}

	meta, err := Probe(path)
	if err != nil {
		return nil, err
	}

	logFn("Metadata: %dx%d @ %.2f fps, codec=%s, frames=%d, duration=%v",
		meta.Width, meta.Height, meta.FPS, meta.Codec, meta.FrameCount, meta.Duration)

	return &Decoder{
		path:     path,
		metadata: *meta,
		logFn:    logFn,
	}, nil
}

// Returns video metadata
func (d *Decoder) Metadata() Metadata {
	return d.metadata
}

// Returns the path of the video
func (d *Decoder) Path() string {
	return d.path
}

// Decodes the frame at index, scaled to width x height. Sequential reads
// reuse the running ffmpeg process; anything else restarts it at index.
func (d *Decoder) FrameAt(ctx context.Context, index, width, height int) (*Frame, error) {
	index = d.clampIndex(index)
	width = normalizeEven(width, 2, 8192)
	height = normalizeEven(height, 2, 8192)

	d.mu.Lock()
	defer d.mu.Unlock()

	if s := d.stream; s != nil {
		sw, sh := s.Size()
		gap := index - s.Next()
		if sw == width && sh == height && gap >= 0 && gap <= maxSkipAhead {
			if err := s.Skip(gap); err == nil {
				if frame, err := s.ReadFrame(); err == nil {
					return frame, nil
				}
			}
		}
	}

	d.stopLocked()

	stream, err := StartStream(ctx, d.path, StreamConfig{
		Width:      width,
		Height:     height,
		StartFrame: index,
		FPS:        d.metadata.FPS,
	}, d.logFn)
	if err != nil {
		return nil, err
	}
	d.stream = stream

	frame, err := stream.ReadFrame()
	if err != nil {
		d.stopLocked()
		return nil, fmt.Errorf("frame %d: %w", index, err)
	}
	return frame, nil
}

func (d *Decoder) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if n := d.metadata.FrameCount; n > 0 && index >= n {
		return n - 1
	}
	return index
}

func (d *Decoder) stopLocked() {
	if d.stream != nil {
		d.stream.Stop()
		d.stream = nil
	}
}

// Stops the running stream and releases ffmpeg
func (d *Decoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// One-shot extraction of a single frame, without touching the stream
func (d *Decoder) ExtractFrame(index, width, height int) (*Frame, error) {
	index = d.clampIndex(index)
	return ExtractSingleFrame(d.path, index, d.metadata.FPS, width, height)
}

func ExtractSingleFrame(path string, index int, fps float64, width, height int) (*Frame, error) {
	width = normalizeEven(width, 2, 8192)
	height = normalizeEven(height, 2, 8192)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", fmt.Sprintf("%.6f", seekSeconds(index, fps)),
		"-i", path,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-pix_fmt", "rgb24",
		"-f", "rawvideo",
		"-loglevel", "error",
		"-",
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("extract frame: %w", err)
	}

	expectedSize := width * height * 3
	if len(out) < expectedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameUnavailable, len(out), expectedSize)
	}

	return &Frame{
		Image:     createRGBAFromRGB24(out[:expectedSize], width, height),
		Index:     index,
		Timestamp: frameTimestamp(index, fps),
	}, nil
}

func createRGBAFromRGB24(rgb []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	convertRGB24ToRGBA(rgb, img.Pix)
	return img
}
