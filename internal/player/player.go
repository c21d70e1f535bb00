package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/0bVdnt/frameloop/internal/logger"
	"github.com/0bVdnt/frameloop/internal/video"
)

var ErrLoadFailed = errors.New("load failed")

// The five operations the render loop drives
type VideoPlayer interface {
	Load(path string, mode video.DecodeMode) error
	TotalNumFrames() int
	SetFrame(index int)
	Update()
	Draw(x, y int)
}

// Frame addressable decoder behind a player
type Source interface {
	Metadata() video.Metadata
	FrameAt(ctx context.Context, index, width, height int) (*video.Frame, error)
	Close()
}

// Opens a Source for a path
type Opener func(path string, logFn video.LogFunc) (Source, error)

// Where Draw puts the texture
type Surface interface {
	DrawImage(img *image.RGBA, x, y int)
	PixelSize() (width, height int)
}

// OpenDecoder is the default Opener, backed by ffmpeg
func OpenDecoder(path string, logFn video.LogFunc) (Source, error) {
	dec, err := video.OpenWithLogger(path, logFn)
	if err != nil {
		return nil, err
	}
	return dec, nil
}

type Player struct {
	surface Surface
	open    Opener
	logger  *logger.Logger
	buffer  *video.FrameBuffer
	ctx     context.Context

	mu      sync.RWMutex
	state   State
	path    string
	mode    video.DecodeMode
	source  Source
	meta    video.Metadata
	loadErr error

	pending int
	matW    int
	matH    int
	pixels  *image.RGBA
	texture *image.RGBA
}

type Config struct {
	Surface Surface
	Logger  *logger.Logger
	Opener  Opener
	Context context.Context
}

func New(cfg Config) *Player {
	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}
	open := cfg.Opener
	if open == nil {
		open = OpenDecoder
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return &Player{
		surface: cfg.Surface,
		open:    open,
		logger:  log.Named("player"),
		buffer:  video.NewFrameBuffer(),
		ctx:     ctx,
		state:   StateUnloaded,
	}
}

// Opens path and reads its frame count. Loading a ready handle replaces
// its video; a handle whose load failed stays failed.
func (p *Player) Load(path string, mode video.DecodeMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateLoadFailed {
		return fmt.Errorf("%w: handle is in a failed state: %w", ErrLoadFailed, p.loadErr)
	}

	p.closeSourceLocked()
	p.buffer.Reset()
	p.state = StateLoading
	p.path = path
	p.mode = mode

	p.logger.Log("Loading %s (mode=%s)", path, mode)

	if !mode.Valid() {
		return p.failLocked(fmt.Errorf("invalid decode mode %d", int(mode)))
	}

	src, err := p.open(path, p.logger.Debug)
	if err != nil {
		return p.failLocked(err)
	}

	meta := src.Metadata()
	if meta.FrameCount <= 0 {
		src.Close()
		return p.failLocked(video.ErrNoVideoStream)
	}

	p.source = src
	p.meta = meta
	p.state = StateReady
	p.logger.Log("Ready: %dx%d, %d frames @ %.2f fps", meta.Width, meta.Height, meta.FrameCount, meta.FPS)
	return nil
}

func (p *Player) failLocked(err error) error {
	p.state = StateLoadFailed
	p.loadErr = err
	p.meta = video.Metadata{}
	p.logger.Error("Load %s failed: %v", p.path, err)
	return fmt.Errorf("%w: %s: %w", ErrLoadFailed, p.path, err)
}

// Number of frames, or 0 until a load succeeds
func (p *Player) TotalNumFrames() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != StateReady {
		return 0
	}
	return p.meta.FrameCount
}

func (p *Player) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Player) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

func (p *Player) Mode() video.DecodeMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// Native frame size of the loaded video
func (p *Player) Width() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meta.Width
}

func (p *Player) Height() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meta.Height
}

func (p *Player) Metadata() video.Metadata {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meta
}

// Load error if the handle failed, otherwise the last decode error
func (p *Player) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.loadErr != nil {
		return p.loadErr
	}
	return p.buffer.GetError()
}

// Releases the decoder. The handle goes back to unloaded.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeSourceLocked()
	p.buffer.Reset()
	if p.state == StateReady {
		p.state = StateUnloaded
	}
	p.meta = video.Metadata{}
}

func (p *Player) closeSourceLocked() {
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}
	p.pending = 0
	p.pixels = nil
	p.texture = nil
	p.matW, p.matH = 0, 0
}
