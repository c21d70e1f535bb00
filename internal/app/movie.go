package app

import (
	"fmt"

	"github.com/0bVdnt/frameloop/internal/logger"
	"github.com/0bVdnt/frameloop/internal/player"
	"github.com/0bVdnt/frameloop/internal/renderer"
	"github.com/0bVdnt/frameloop/internal/video"
	"github.com/gdamore/tcell/v2"
)

// What the movie demo needs from its player
type MoviePlayer interface {
	player.VideoPlayer
	CurrentFrame() int
}

// Plays one movie in lockstep with the shell's frame counter: tick n
// shows frame n mod total.
type MovieApp struct {
	player MoviePlayer
	canvas *renderer.Renderer
	logger *logger.Logger

	path string
	mode video.DecodeMode
	hud  bool

	loadErr error
	last    Tick
}

type MovieConfig struct {
	Path   string
	Mode   video.DecodeMode
	HUD    bool
	Logger *logger.Logger
}

func NewMovieApp(p MoviePlayer, canvas *renderer.Renderer, cfg MovieConfig) *MovieApp {
	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}
	return &MovieApp{
		player: p,
		canvas: canvas,
		logger: log.Named("movie"),
		path:   cfg.Path,
		mode:   cfg.Mode,
		hud:    cfg.HUD,
	}
}

// Loads the movie. A failed load is kept and shown on screen instead of
// stopping the loop.
func (a *MovieApp) Setup() error {
	if err := a.player.Load(a.path, a.mode); err != nil {
		a.loadErr = err
		a.logger.Error("%v", err)
		return nil
	}
	a.logger.Log("Loaded %s: %d frames", a.path, a.player.TotalNumFrames())
	return nil
}

func (a *MovieApp) Update(t Tick) {
	a.last = t

	total := a.player.TotalNumFrames()
	if total <= 0 {
		return
	}
	a.player.SetFrame(int(t.Num % uint64(total)))
	a.player.Update()
}

func (a *MovieApp) Draw() {
	if a.canvas != nil {
		a.canvas.ClearColor(0)
	}
	a.player.Draw(0, 0)

	if a.canvas == nil {
		return
	}
	if a.loadErr != nil {
		a.canvas.RenderMessage(a.loadErr.Error(), tcell.ColorDarkRed)
	}
	if a.hud {
		a.drawHUD()
	}
}

// Status line with the frame position and measured rate
func (a *MovieApp) drawHUD() {
	_, pixH := a.canvas.PixelSize()
	rows := pixH / 2
	if rows < 2 {
		return
	}

	total := a.player.TotalNumFrames()
	frame := a.player.CurrentFrame()

	if total > 1 {
		a.canvas.ProgressBar(rows-2, float64(frame)/float64(total-1), tcell.ColorGreen, tcell.ColorDarkGray)
	}

	style := tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	a.canvas.FillLine(rows-1, style)
	status := fmt.Sprintf(" frame %d/%d │ tick %d │ %.1f fps │ %s │ q: quit",
		frame, total, a.last.Num, a.last.Rate, a.mode)
	a.canvas.DrawText(0, rows-1, status, style)
}

// Load error, if the movie could not be opened
func (a *MovieApp) Err() error {
	return a.loadErr
}
