package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hubastard/panlab/engine/config"
	"github.com/hubastard/panlab/engine/core"
	glbackend "github.com/hubastard/panlab/engine/gfx/gl"
	"github.com/hubastard/panlab/engine/platform"
	"github.com/hubastard/panlab/engine/profiler"
	"github.com/hubastard/panlab/engine/surface"
)

// App adds the desktop controls on top of the surface: M/L/D/W toggle the
// render switches, Esc quits, and the title shows frame statistics.
type App struct {
	*surface.Surface

	win   core.Window
	dev   *glbackend.Device
	input *core.Input
	title string

	frames    int
	lastTitle time.Time
}

func (a *App) HandleEvent(ev core.Event) {
	if !a.input.Handle(ev) {
		a.Surface.HandleEvent(ev)
		return
	}
	log := core.Logger()
	switch ev.(core.EventKey).Key {
	case core.KeyEscape:
		a.win.RequestClose()
	case core.KeyM:
		log.Info("render mode", "mode", a.ToggleRenderMode())
	case core.KeyL:
		log.Info("line width", "px", a.ToggleLineWidth())
	case core.KeyD:
		log.Info("drift", "on", a.ToggleDrift())
	case core.KeyW:
		log.Info("wireframe", "on", a.ToggleWireframe())
	}
}

func (a *App) OnDrawFrame() error {
	if err := a.Surface.OnDrawFrame(); err != nil {
		return err
	}
	a.frames++
	if now := time.Now(); now.Sub(a.lastTitle) >= time.Second {
		st := a.Stats()
		f := a.Flags()
		a.win.SetTitle(fmt.Sprintf("%s | %d fps | %d draws, %d verts | %s w%d",
			a.title, a.frames, st.DrawCalls, st.VertexCount, f.Mode, f.LineWidth))
		a.frames = 0
		a.lastTitle = now
	}
	return nil
}

func (a *App) OnSurfaceDestroyed() {
	a.Surface.OnSurfaceDestroyed()
	a.dev.Release()
}

func run(cfg config.Config) error {
	var win *platform.GLFWWindow
	defer func() {
		if win != nil {
			win.Destroy()
		}
	}()

	newWindow := func(c core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(c, nil)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	newSurface := func(w core.Window) (core.Surface, error) {
		dev, err := glbackend.NewDevice()
		if err != nil {
			return nil, err
		}
		return &App{
			Surface:   surface.New(dev, surface.Options{}),
			win:       w,
			dev:       dev,
			input:     core.NewInput(),
			title:     cfg.Title,
			lastTitle: time.Now(),
		}, nil
	}
	return core.Run(cfg.Engine(), newWindow, newSurface)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	core.SetLogger(log)

	if cfg.Profile != "" {
		profiler.Init(1 << 16)
	}

	err = run(cfg)

	if cfg.Profile != "" {
		if perr := profiler.Dump(cfg.Profile); perr == nil {
			log.Info("profile written", "path", cfg.Profile)
		} else if !errors.Is(perr, profiler.ErrNoEvents) {
			log.Warn("profile dump failed", "err", perr)
		}
	}

	if err != nil {
		log.Error("panlab failed", "err", err)
		os.Exit(1)
	}
}
