package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/0bVdnt/frameloop/internal/app"
	"github.com/0bVdnt/frameloop/internal/config"
	"github.com/0bVdnt/frameloop/internal/logger"
	"github.com/0bVdnt/frameloop/internal/player"
	"github.com/0bVdnt/frameloop/internal/renderer"
	"github.com/0bVdnt/frameloop/internal/video"
)

type CLI struct {
	Play     PlayCmd     `cmd:"" default:"withargs" help:"Play a movie frame by frame in the terminal (default)."`
	Snapshot SnapshotCmd `cmd:"" help:"Print a single frame as colored half blocks."`
	Probe    ProbeCmd    `cmd:"" help:"Show video metadata."`
}

type PlayCmd struct {
	Path string `arg:"" optional:"" help:"Movie file (default: fingers.mov)."`

	Config     string   `short:"c" type:"path" help:"YAML config file."`
	Mode       string   `short:"m" help:"Decode mode (texture, pixels, pixels+texture)."`
	FPS        *float64 `help:"Target frame rate (0 = vertical sync rate)."`
	NoVsync    bool     `help:"Disable vertical sync."`
	Fullscreen bool     `short:"f" help:"Use the whole terminal."`
	Width      *int     `short:"W" help:"Window width in pixels."`
	Height     *int     `short:"H" help:"Window height in pixels."`
	HUD        bool     `help:"Show frame counter and measured frame rate."`
	LogFile    string   `type:"path" help:"Write a debug log to this file."`
	LogLevel   string   `help:"Log level (debug, info, warn, error)."`
}

func (cmd *PlayCmd) Run() error {
	cfg, err := cmd.settings()
	if err != nil {
		return err
	}

	mode, err := cfg.DecodeMode()
	if err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("stdout is not a terminal")
	}

	log, err := logger.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	settings := app.Settings{
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		FrameRate:    cfg.FrameRate,
		VerticalSync: cfg.VerticalSync,
	}
	if cfg.Fullscreen() {
		settings.Mode = app.Fullscreen
	}

	window, err := renderer.New(settings.Viewport())
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer window.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := player.New(player.Config{
		Surface: window,
		Logger:  log,
		Context: ctx,
	})
	defer p.Close()

	movie := app.NewMovieApp(p, window, app.MovieConfig{
		Path:   cfg.Video.Path,
		Mode:   mode,
		HUD:    cfg.HUD,
		Logger: log,
	})

	return app.New(settings, window, movie, log).Run(ctx)
}

// Defaults, file and environment, then flags; validated last
func (cmd *PlayCmd) settings() (config.Config, error) {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return cfg, err
	}
	cmd.apply(&cfg)
	return cfg, cfg.Validate()
}

// Flags win over file and environment
func (cmd *PlayCmd) apply(cfg *config.Config) {
	if cmd.Path != "" {
		cfg.Video.Path = cmd.Path
	}
	if cmd.Mode != "" {
		cfg.Video.Mode = cmd.Mode
	}
	if cmd.FPS != nil {
		cfg.FrameRate = *cmd.FPS
	}
	if cmd.NoVsync {
		cfg.VerticalSync = false
	}
	if cmd.Fullscreen {
		cfg.Window.Mode = config.WindowModeFullscreen
	}
	if cmd.Width != nil {
		cfg.Window.Width = *cmd.Width
	}
	if cmd.Height != nil {
		cfg.Window.Height = *cmd.Height
	}
	if cmd.HUD {
		cfg.HUD = true
	}
	if cmd.LogFile != "" {
		cfg.Log.File = cmd.LogFile
	}
	if cmd.LogLevel != "" {
		cfg.Log.Level = cmd.LogLevel
	}
}

type SnapshotCmd struct {
	Path   string `arg:"" type:"existingfile" help:"Movie file."`
	Frame  int    `short:"n" default:"0" help:"Zero-based frame index."`
	Width  int    `short:"W" default:"80" help:"Output width in pixels."`
	Height int    `short:"H" default:"48" help:"Output height in pixels."`
}

func (cmd *SnapshotCmd) Run() error {
	decoder, err := video.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer decoder.Close()

	meta := decoder.Metadata()
	w, h := video.FitDimensions(meta.Width, meta.Height, cmd.Width, cmd.Height)

	frame, err := decoder.ExtractFrame(cmd.Frame, w, h)
	if err != nil {
		return err
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Print(renderer.RenderColor(frame.Image))
	} else {
		fmt.Print(renderer.RenderASCII(frame.Image))
	}
	fmt.Printf("%s: frame %d/%d at %v\n", cmd.Path, frame.Index, meta.FrameCount, frame.Timestamp)
	return nil
}

type ProbeCmd struct {
	Path string `arg:"" type:"existingfile" help:"Movie file."`
}

func (cmd *ProbeCmd) Run() error {
	meta, err := video.Probe(cmd.Path)
	if err != nil {
		return err
	}
	fmt.Printf("File:     %s\n", cmd.Path)
	fmt.Printf("Size:     %dx%d\n", meta.Width, meta.Height)
	fmt.Printf("Codec:    %s\n", meta.Codec)
	fmt.Printf("FPS:      %.3f\n", meta.FPS)
	fmt.Printf("Frames:   %d\n", meta.FrameCount)
	fmt.Printf("Duration: %v\n", meta.Duration)
	return nil
}

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("frameloop"),
		kong.Description("Replay a movie frame by frame in lockstep with a fixed-rate render loop."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
