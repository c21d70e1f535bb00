package renderer

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Describes the drawable area in pixels. Each terminal cell holds two
// vertically stacked pixels.
type Viewport struct {
	Width      int
	Height     int
	Fullscreen bool
}

// Draws into a tcell screen. tcell diffs cells on Show, so every draw
// writes its cells unconditionally.
type Renderer struct {
	mu       sync.Mutex
	screen   tcell.Screen
	viewport Viewport
	closed   bool
}

// Creates a new terminal renderer
func New(vp Viewport) (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, vp)
}

// Wraps an existing screen, e.g. a tcell simulation screen
func NewWithScreen(screen tcell.Screen, vp Viewport) (*Renderer, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()
	screen.Clear()

	return &Renderer{
		screen:   screen,
		viewport: vp,
	}, nil
}

// Returns undelying tcell screen
func (r *Renderer) Screen() tcell.Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screen
}

// Returns terminal dimensions
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen == nil || r.closed {
		return 80, 24
	}
	return r.screen.Size()
}

// Returns the drawable area in pixels
func (r *Renderer) PixelSize() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cols, rows := r.viewCellsLocked()
	return cols, rows * 2
}

// Viewport size in cells, clipped to the terminal
func (r *Renderer) viewCellsLocked() (int, int) {
	if r.screen == nil || r.closed {
		return 0, 0
	}
	w, h := r.screen.Size()
	if r.viewport.Fullscreen {
		return w, h
	}
	cols := min(r.viewport.Width, w)
	rows := min((r.viewport.Height+1)/2, h)
	return max(cols, 0), max(rows, 0)
}

// Clears the screen
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen != nil && !r.closed {
		r.screen.Clear()
	}
}

// Fills the viewport with a gray level
func (r *Renderer) ClearColor(gray uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	g := int32(gray)
	style := tcell.StyleDefault.Background(tcell.NewRGBColor(g, g, g))
	cols, rows := r.viewCellsLocked()
	for y := range rows {
		for x := range cols {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// Presents the frame
func (r *Renderer) Show() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen != nil && !r.closed {
		r.screen.Show()
	}
}

// Forces a full screen refresh
func (r *Renderer) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen != nil && !r.closed {
		r.screen.Sync()
	}
}

// Shuts down the renderer
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	if r.screen != nil {
		r.screen.Fini()
		r.screen = nil
	}
}
