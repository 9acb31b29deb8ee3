package core

import (
	"fmt"
	"runtime"
)

// Run wires the platform window and surface and executes the main loop.
// newSurface is called with the window's GPU context current.
func Run(cfg Config, newWindow func(Config) (Window, error), newSurface func(Window) (Surface, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	log := Logger()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	surf, err := newSurface(win)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}

	w, h := win.FramebufferSize()
	if err := surf.OnSurfaceCreated(w, h); err != nil {
		return err
	}
	defer surf.OnSurfaceDestroyed()

	win.SetEventCallback(func(ev Event) {
		switch e := ev.(type) {
		case EventCloseRequested:
			win.RequestClose()
		case EventResize:
			if e.W < 1 || e.H < 1 {
				return
			}
			surf.OnSurfaceChanged(e.W, e.H)
		default:
			surf.HandleEvent(ev)
		}
	})

	for !win.ShouldClose() {
		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		if err := surf.OnDrawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// Present; vsync paces the loop.
		win.SwapBuffers()
	}

	log.Info("engine exit")
	return nil
}
