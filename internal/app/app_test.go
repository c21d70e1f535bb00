package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/0bVdnt/frameloop/internal/player"
	"github.com/0bVdnt/frameloop/internal/renderer"
	"github.com/0bVdnt/frameloop/internal/video"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op   string
	arg  int
	x, y int
}

// Records every call the movie app makes on its player
type recordingPlayer struct {
	total   int
	loadErr error
	loaded  bool
	current int
	calls   []call
}

func (p *recordingPlayer) Load(path string, mode video.DecodeMode) error {
	p.calls = append(p.calls, call{op: "load"})
	if p.loadErr != nil {
		return p.loadErr
	}
	p.loaded = true
	return nil
}

func (p *recordingPlayer) TotalNumFrames() int {
	if !p.loaded {
		return 0
	}
	return p.total
}

func (p *recordingPlayer) SetFrame(i int) {
	p.current = i
	p.calls = append(p.calls, call{op: "setFrame", arg: i})
}

func (p *recordingPlayer) Update() {
	p.calls = append(p.calls, call{op: "update"})
}

func (p *recordingPlayer) Draw(x, y int) {
	p.calls = append(p.calls, call{op: "draw", x: x, y: y})
}

func (p *recordingPlayer) CurrentFrame() int { return p.current }

func (p *recordingPlayer) ops(op string) []call {
	var out []call
	for _, c := range p.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func newSimWindow(t *testing.T, s Settings) *renderer.Renderer {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	r, err := renderer.NewWithScreen(screen, s.Viewport())
	require.NoError(t, err)
	screen.SetSize(80, 24)
	t.Cleanup(r.Close)
	return r
}

func demoSettings() Settings {
	return Settings{Width: 1280, Height: 720, Mode: Windowed, FrameRate: 60, VerticalSync: true}
}

func TestTickInterval(t *testing.T) {
	s := Settings{FrameRate: 60, VerticalSync: true}
	assert.Equal(t, time.Second/60, s.TickInterval())

	s = Settings{FrameRate: 0, VerticalSync: true}
	assert.Equal(t, time.Second/60, s.TickInterval())

	s = Settings{FrameRate: 0, VerticalSync: false}
	assert.Equal(t, time.Duration(0), s.TickInterval())

	s = Settings{FrameRate: 25}
	assert.Equal(t, 40*time.Millisecond, s.TickInterval())
}

func TestViewport(t *testing.T) {
	vp := Settings{Width: 640, Height: 480, Mode: Fullscreen}.Viewport()
	assert.True(t, vp.Fullscreen)
	assert.Equal(t, 640, vp.Width)
	assert.Equal(t, "fullscreen", Fullscreen.String())
	assert.Equal(t, "window", Windowed.String())
}

// 300 ticks over a 120 frame movie at 60 fps
func TestMovieLoopRequestsFrameNumModTotal(t *testing.T) {
	settings := demoSettings()
	window := newSimWindow(t, settings)
	p := &recordingPlayer{total: 120}
	movie := NewMovieApp(p, window, MovieConfig{Path: "fingers.mov", Mode: video.DecodeTextureOnly})
	shell := New(settings, window, movie, nil)

	require.NoError(t, movie.Setup())
	for range 300 {
		shell.Step()
	}

	assert.Equal(t, uint64(300), shell.FrameNum())

	sets := p.ops("setFrame")
	require.Len(t, sets, 300)
	for tick, c := range sets {
		assert.Equal(t, tick%120, c.arg, "tick %d", tick)
	}

	draws := p.ops("draw")
	require.Len(t, draws, 300)
	for _, c := range draws {
		assert.Equal(t, 0, c.x)
		assert.Equal(t, 0, c.y)
	}

	// per tick: setFrame, update, draw in that order
	ticks := p.calls[1:]
	require.Len(t, ticks, 900)
	for i := 0; i < len(ticks); i += 3 {
		assert.Equal(t, "setFrame", ticks[i].op)
		assert.Equal(t, "update", ticks[i+1].op)
		assert.Equal(t, "draw", ticks[i+2].op)
	}
}

func TestMovieLoadFailureKeepsRunning(t *testing.T) {
	window := newSimWindow(t, demoSettings())
	p := &recordingPlayer{total: 120, loadErr: errors.New("load failed: fingers.mov")}
	movie := NewMovieApp(p, window, MovieConfig{Path: "fingers.mov", HUD: true})
	shell := New(demoSettings(), window, movie, nil)

	require.NoError(t, movie.Setup())
	assert.Error(t, movie.Err())

	assert.NotPanics(t, func() {
		for range 5 {
			shell.Step()
		}
	})
	assert.Empty(t, p.ops("setFrame"))
	assert.Len(t, p.ops("draw"), 5)

	// message row is the middle of the 80x24 terminal
	ch, _, _, _ := window.Screen().GetContent(40, 12)
	assert.NotEqual(t, '▀', ch)
}

func TestMovieHUD(t *testing.T) {
	window := newSimWindow(t, demoSettings())
	p := &recordingPlayer{total: 120}
	movie := NewMovieApp(p, window, MovieConfig{Path: "fingers.mov", HUD: true})
	shell := New(demoSettings(), window, movie, nil)

	require.NoError(t, movie.Setup())
	shell.Step()

	ch, _, _, _ := window.Screen().GetContent(1, 23)
	assert.Equal(t, 'f', ch, "status line starts with the frame counter")
}

// Real player, fake decoder: texture lands on the simulated terminal
func TestMovieWithPlayer(t *testing.T) {
	settings := Settings{Width: 40, Height: 20, Mode: Windowed, FrameRate: 60, VerticalSync: true}
	window := newSimWindow(t, settings)

	src := &solidSource{meta: video.Metadata{Width: 80, Height: 40, FPS: 60, FrameCount: 120}}
	p := player.New(player.Config{
		Surface: window,
		Opener: func(string, video.LogFunc) (player.Source, error) {
			return src, nil
		},
	})
	movie := NewMovieApp(p, window, MovieConfig{Path: "fingers.mov", Mode: video.DecodeTextureOnly})
	shell := New(settings, window, movie, nil)

	require.NoError(t, movie.Setup())
	for range 130 {
		shell.Step()
	}

	assert.Equal(t, 9, p.MaterializedFrame())
	assert.Equal(t, image.Pt(40, 20), p.Texture().Bounds().Size())

	ch, _, style, _ := window.Screen().GetContent(0, 0)
	assert.Equal(t, '▀', ch)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(9, 0, 0), fg)
}

type solidSource struct {
	meta video.Metadata
}

func (s *solidSource) Metadata() video.Metadata { return s.meta }

func (s *solidSource) FrameAt(_ context.Context, index, w, h int) (*video.Frame, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(index)
		img.Pix[i+3] = 255
	}
	return &video.Frame{Image: img, Index: index}, nil
}

func (s *solidSource) Close() {}

func TestRunStopsOnContextCancel(t *testing.T) {
	settings := Settings{Width: 10, Height: 10, FrameRate: 200, VerticalSync: true}
	window := newSimWindow(t, settings)
	p := &recordingPlayer{total: 10}
	shell := New(settings, window, NewMovieApp(p, window, MovieConfig{Path: "x"}), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, shell.Run(ctx))
	assert.Greater(t, shell.FrameNum(), uint64(0))
	assert.Equal(t, int(shell.FrameNum()), len(p.ops("draw")))
}

func TestRunStopsWhenScreenCloses(t *testing.T) {
	settings := Settings{Width: 10, Height: 10, FrameRate: 200, VerticalSync: true}
	window := newSimWindow(t, settings)
	shell := New(settings, window, NewMovieApp(&recordingPlayer{total: 10}, window, MovieConfig{Path: "x"}), nil)

	done := make(chan error, 1)
	go func() { done <- shell.Run(context.Background()) }()

	time.Sleep(30 * time.Millisecond)
	window.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop kept running after the screen was closed")
	}
}

type failingApp struct{}

func (failingApp) Setup() error  { return errors.New("no gl context") }
func (failingApp) Update(t Tick) {}
func (failingApp) Draw()         {}

func TestRunReturnsSetupError(t *testing.T) {
	shell := New(demoSettings(), nil, failingApp{}, nil)
	assert.Error(t, shell.Run(context.Background()))
	assert.Zero(t, shell.FrameNum())
}

func TestHandleResize(t *testing.T) {
	window := newSimWindow(t, demoSettings())
	shell := New(demoSettings(), window, failingApp{}, nil)

	assert.Equal(t, EventContinue, shell.HandleEvent(tcell.NewEventResize(100, 40)))
	assert.Equal(t, EventContinue, shell.HandleEvent(tcell.NewEventInterrupt(nil)))
}

func TestMeasuredFrameRate(t *testing.T) {
	shell := New(demoSettings(), nil, failingApp{}, nil)
	start := time.Unix(0, 0)
	for i := range 10 {
		shell.measure(start.Add(time.Duration(i) * 20 * time.Millisecond))
	}
	assert.InDelta(t, 50, shell.FrameRate(), 0.01)
}
