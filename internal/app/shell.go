package app

import (
	"context"
	"time"

	"github.com/0bVdnt/frameloop/internal/logger"
	"github.com/0bVdnt/frameloop/internal/renderer"
	"github.com/gdamore/tcell/v2"
)

type WindowMode int

const (
	Windowed WindowMode = iota
	Fullscreen
)

func (m WindowMode) String() string {
	if m == Fullscreen {
		return "fullscreen"
	}
	return "window"
}

// Frame rate used when vertical sync is on and no rate is configured
const DefaultFrameRate = 60.0

// Startup parameters of the shell, fixed for its lifetime
type Settings struct {
	Width        int
	Height       int
	Mode         WindowMode
	FrameRate    float64
	VerticalSync bool
}

// Time between ticks; 0 means the loop runs as fast as it can
func (s Settings) TickInterval() time.Duration {
	rate := s.FrameRate
	if rate <= 0 {
		if !s.VerticalSync {
			return 0
		}
		rate = DefaultFrameRate
	}
	return time.Duration(float64(time.Second) / rate)
}

func (s Settings) Viewport() renderer.Viewport {
	return renderer.Viewport{
		Width:      s.Width,
		Height:     s.Height,
		Fullscreen: s.Mode == Fullscreen,
	}
}

// One iteration of the render loop
type Tick struct {
	Num  uint64
	Rate float64
}

// Callbacks driven by the shell: Setup once, then Update and Draw on
// every tick.
type App interface {
	Setup() error
	Update(t Tick)
	Draw()
}

// Owns the window and the fixed-rate loop
type Shell struct {
	settings Settings
	window   *renderer.Renderer
	app      App
	logger   *logger.Logger

	frameNum uint64
	rate     float64
	lastTick time.Time
}

func New(settings Settings, window *renderer.Renderer, app App, log *logger.Logger) *Shell {
	if log == nil {
		log = logger.Noop()
	}
	return &Shell{
		settings: settings,
		window:   window,
		app:      app,
		logger:   log.Named("shell"),
	}
}

// Runs setup and then ticks until ctx is done, a quit key is pressed or
// the screen is closed.
// Ticks missed while a frame is still in flight are dropped, not replayed.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.app.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventChan := make(chan tcell.Event, 50)
	go s.pollEvents(ctx, eventChan)

	interval := s.settings.TickInterval()
	s.logger.Log("Loop: %s %dx%d, interval=%v, vsync=%v",
		s.settings.Mode, s.settings.Width, s.settings.Height, interval, s.settings.VerticalSync)

	if interval <= 0 {
		return s.runUnthrottled(ctx, eventChan)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			if s.HandleEvent(ev) == EventQuit {
				return nil
			}

		case <-ticker.C:
			s.Step()
		}
	}
}

func (s *Shell) runUnthrottled(ctx context.Context, eventChan <-chan tcell.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			if s.HandleEvent(ev) == EventQuit {
				return nil
			}
		default:
			s.Step()
		}
	}
}

// Runs a single tick: update, draw, present, advance the counter
func (s *Shell) Step() {
	s.measure(time.Now())

	t := Tick{Num: s.frameNum, Rate: s.rate}
	s.app.Update(t)
	s.app.Draw()
	if s.window != nil {
		s.window.Show()
	}
	s.frameNum++
}

// Smoothed frames per second
func (s *Shell) measure(now time.Time) {
	if !s.lastTick.IsZero() {
		if dt := now.Sub(s.lastTick).Seconds(); dt > 0 {
			instant := 1 / dt
			if s.rate == 0 {
				s.rate = instant
			} else {
				s.rate = 0.9*s.rate + 0.1*instant
			}
		}
	}
	s.lastTick = now
}

// Number of ticks completed so far
func (s *Shell) FrameNum() uint64 {
	return s.frameNum
}

// Measured frame rate
func (s *Shell) FrameRate() float64 {
	return s.rate
}

func (s *Shell) Settings() Settings {
	return s.settings
}

func (s *Shell) pollEvents(ctx context.Context, eventChan chan<- tcell.Event) {
	if s.window == nil {
		return
	}
	screen := s.window.Screen()
	if screen == nil {
		return
	}

	for {
		// nil once the screen is finalized
		ev := screen.PollEvent()
		if ev == nil {
			close(eventChan)
			return
		}
		select {
		case eventChan <- ev:
		case <-ctx.Done():
			return
		}
	}
}
