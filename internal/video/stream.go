package video

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// Holds streaming parameters
type StreamConfig struct {
	Width      int
	Height     int
	StartFrame int
	FPS        float64
}

// Manages one sequential ffmpeg decode process. Frames are pulled one
// at a time by the caller; nothing is decoded ahead in the background.
type Stream struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdout io.ReadCloser
	stderr io.ReadCloser
	reader *bufio.Reader

	width     int
	height    int
	frameSize int
	fps       float64
	next      int
	rgbBuf    []byte

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// Creates and starts a new decode stream positioned at config.StartFrame
func StartStream(ctx context.Context, path string, config StreamConfig, logFn LogFunc) (*Stream, error) {
	if logFn == nil {
		logFn = func(string, ...any) {}
	}
	width := normalizeEven(config.Width, 2, 8192)
	height := normalizeEven(config.Height, 2, 8192)

	args := buildFFmpegArgs(path, width, height, config.StartFrame, config.FPS)
	logFn("FFmpeg args: %v", args)

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		stdout.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("start: %w", err)
	}

	logFn("FFmpeg started at frame %d, PID=%d", config.StartFrame, cmd.Process.Pid)

	frameSize := width * height * 3
	s := &Stream{
		cmd:       cmd,
		cancel:    cancel,
		stdout:    stdout,
		stderr:    stderr,
		reader:    bufio.NewReaderSize(stdout, frameSize*2),
		width:     width,
		height:    height,
		frameSize: frameSize,
		fps:       config.FPS,
		next:      config.StartFrame,
		rgbBuf:    make([]byte, frameSize),
		done:      make(chan struct{}),
	}

	go s.drainStderr(logFn)
	return s, nil
}

// Builds arguments for FFmpeg
func buildFFmpegArgs(path string, width, height, startFrame int, fps float64) []string {
	args := []string{
		"-threads", fmt.Sprintf("%d", runtime.NumCPU()),
	}

	if startFrame > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.6f", seekSeconds(startFrame, fps)))
	}

	args = append(args,
		"-i", path,
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-vsync", "passthrough",
		"-pix_fmt", "rgb24",
		"-f", "rawvideo",
		"-an",
		"-sn",
		"-loglevel", "error",
		"-",
	)
	return args
}

// Seek target for a frame index. Biased a quarter frame early so float
// rounding can never land the seek on the following frame.
func seekSeconds(index int, fps float64) float64 {
	if index <= 0 || fps <= 0 {
		return 0
	}
	t := (float64(index) - 0.25) / fps
	if t < 0 {
		return 0
	}
	return t
}

// Decodes the next frame in sequence
func (s *Stream) ReadFrame() (*Frame, error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return nil, ErrStreamStopped
	}

	if _, err := io.ReadFull(s.reader, s.rgbBuf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrFrameUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	convertRGB24ToRGBA(s.rgbBuf, img.Pix)

	frame := &Frame{
		Image:     img,
		Index:     s.next,
		Timestamp: frameTimestamp(s.next, s.fps),
	}
	s.next++
	return frame, nil
}

// Discards n frames without converting them
func (s *Stream) Skip(n int) error {
	for range n {
		if _, err := io.ReadFull(s.reader, s.rgbBuf); err != nil {
			return ErrFrameUnavailable
		}
		s.next++
	}
	return nil
}

// Index of the frame the next ReadFrame returns
func (s *Stream) Next() int {
	return s.next
}

func (s *Stream) Size() (int, int) {
	return s.width, s.height
}

func (s *Stream) drainStderr(logFn LogFunc) {
	defer close(s.done)
	buf := make([]byte, 1024)
	for {
		n, err := s.stderr.Read(buf)
		if n > 0 {
			logFn("FFmpeg stderr: %s", string(buf[:n]))
		}
		if err != nil {
			break
		}
	}
}

// Terminates the stream and waits for it to finish
func (s *Stream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}

	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}
	s.cmd.Wait()
}

func frameTimestamp(index int, fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(index) / fps * float64(time.Second))
}

func convertRGB24ToRGBA(src, dst []byte) {
	for i, j := 0, 0; i+2 < len(src) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 255
	}
}

func normalizeEven(v, min, max int) int {
	v = (v / 2) * 2
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
